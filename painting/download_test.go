package painting

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	buf := bytes.NewBuffer(nil)
	if err := jpeg.Encode(buf, image.NewRGBA(image.Rect(0, 0, w, h)), nil); err != nil {
		t.Fatalf("encoding fixture: %v", err)
	}
	return buf.Bytes()
}

func TestDownloadSavesAndProbes(t *testing.T) {
	payload := jpegBytes(t, 320, 200)
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write(payload)
	}))
	defer server.Close()

	dir := t.TempDir()
	img, err := Download(server.URL+"/starry-night.jpg", dir, "run-1")
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	if img.Width != 320 || img.Height != 200 {
		t.Errorf("probed %dx%d, want 320x200", img.Width, img.Height)
	}
	if filepath.Ext(img.Path) != ".jpg" {
		t.Errorf("saved as %s, want .jpg extension", img.Path)
	}
	if gotUA == "" || gotUA == "Go-http-client/1.1" {
		t.Errorf("request used default Go user agent: %q", gotUA)
	}
	if _, err := os.Stat(img.Path); err != nil {
		t.Errorf("saved file missing: %v", err)
	}
}

func TestDownloadRejectsNonImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html>not a painting</html>"))
	}))
	defer server.Close()

	if _, err := Download(server.URL, t.TempDir(), "run-2"); err == nil {
		t.Fatal("expected error for text/html response")
	}
}

func TestDownloadRejectsUndecodablePayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte("truncated garbage"))
	}))
	defer server.Close()

	if _, err := Download(server.URL, t.TempDir(), "run-3"); err == nil {
		t.Fatal("expected error for undecodable payload")
	}
}

func TestDownloadRejectsHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	if _, err := Download(server.URL, t.TempDir(), "run-4"); err == nil {
		t.Fatal("expected error for 404 response")
	}
}

func TestProbeReadsPNGDimensions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "art.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating fixture: %v", err)
	}
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, 48, 96))); err != nil {
		t.Fatalf("encoding fixture: %v", err)
	}
	f.Close()

	img, err := Probe(path)
	if err != nil {
		t.Fatalf("Probe failed: %v", err)
	}
	if img.Width != 48 || img.Height != 96 {
		t.Errorf("probed %dx%d, want 48x96", img.Width, img.Height)
	}
	if got := img.Aspect(); got != 0.5 {
		t.Errorf("aspect = %v, want 0.5", got)
	}
}
