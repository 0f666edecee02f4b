package cli

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const testContainer = `<?xml version="1.0"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`

const testPackage = `<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:title>Kokoro</dc:title>
    <dc:creator>Natsume Soseki</dc:creator>
  </metadata>
  <manifest>
    <item id="c1" href="ch1.xhtml" media-type="application/xhtml+xml"/>
    <item id="c2" href="ch2.xhtml" media-type="application/xhtml+xml"/>
  </manifest>
  <spine>
    <itemref idref="c1"/>
    <itemref idref="c2"/>
  </spine>
</package>`

func writeZip(t *testing.T, path string, files map[string]string) string {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	return path
}

func writeTestEPUB(t *testing.T, dir, name string) string {
	t.Helper()
	return writeZip(t, filepath.Join(dir, name), map[string]string{
		"mimetype":               "application/epub+zip",
		"META-INF/container.xml": testContainer,
		"OEBPS/content.opf":      testPackage,
		"OEBPS/ch1.xhtml":        `<html xmlns="http://www.w3.org/1999/xhtml"><body><p>chapter one</p></body></html>`,
		"OEBPS/ch2.xhtml":        `<html xmlns="http://www.w3.org/1999/xhtml"><body><p>chapter two</p></body></html>`,
	})
}

func writeTestDictionary(t *testing.T) string {
	t.Helper()
	return writeZip(t, filepath.Join(t.TempDir(), "dict.zip"), map[string]string{
		"index.json": `{"title":"Test Dictionary"}`,
		"term_bank_1.json": `[
			["犬","いぬ","n","",1,[{"type":"structured-content","content":[{"tag":"span","title":"noun (common)"},{"tag":"li","content":"dog"}]}],1,""],
			["犬","けん","n","",1,[{"type":"structured-content","content":"counter for dogs"}],2,""]
		]`,
	})
}
