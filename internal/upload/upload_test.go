package upload

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"strings"
	"testing"

	"github.com/strathmore/lostfound/internal/imaging"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("creating upload store: %v", err)
	}
	return store
}

func testJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{0, 128, 0, 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encoding test JPEG: %v", err)
	}
	return buf.Bytes()
}

func TestSaveStoresFile(t *testing.T) {
	store := newTestStore(t)

	key, err := store.Save(bytes.NewReader(testJPEG(t, 40, 40)), "photo.jpg")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if !strings.HasSuffix(key, "_photo.jpg") {
		t.Errorf("expected key ending in _photo.jpg, got %q", key)
	}
	if _, ok := store.Path(key); !ok {
		t.Errorf("expected stored file for key %q", key)
	}
}

func TestSaveUniqueKeys(t *testing.T) {
	store := newTestStore(t)

	k1, _ := store.Save(bytes.NewReader(testJPEG(t, 10, 10)), "same.jpg")
	k2, _ := store.Save(bytes.NewReader(testJPEG(t, 10, 10)), "same.jpg")
	if k1 == k2 {
		t.Errorf("expected distinct keys for identical filenames, got %q twice", k1)
	}
}

func TestSaveRejectsUnsupportedExtension(t *testing.T) {
	store := newTestStore(t)

	for _, name := range []string{"malware.exe", "notes.txt", "noextension", "archive.tar.gz"} {
		_, err := store.Save(strings.NewReader("data"), name)
		if !errors.Is(err, ErrUnsupportedType) {
			t.Errorf("expected ErrUnsupportedType for %q, got %v", name, err)
		}
	}
}

func TestSaveExtensionCaseInsensitive(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Save(bytes.NewReader(testJPEG(t, 10, 10)), "PHOTO.JPG"); err != nil {
		t.Errorf("expected uppercase extension to be accepted, got %v", err)
	}
}

func TestSaveNormalizesLargeImage(t *testing.T) {
	store := newTestStore(t)

	key, err := store.Save(bytes.NewReader(testJPEG(t, 2000, 1500)), "big.jpg")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	path, ok := store.Path(key)
	if !ok {
		t.Fatal("expected stored file")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading stored file: %v", err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decoding stored file: %v", err)
	}
	b := img.Bounds()
	if b.Dx() > imaging.MaxWidth || b.Dy() > imaging.MaxHeight {
		t.Errorf("expected stored image within %dx%d, got %dx%d",
			imaging.MaxWidth, imaging.MaxHeight, b.Dx(), b.Dy())
	}
}

func TestSaveKeepsRawBytesWhenNormalizationFails(t *testing.T) {
	store := newTestStore(t)

	raw := []byte("this is not a decodable image")
	key, err := store.Save(bytes.NewReader(raw), "broken.png")
	if err != nil {
		t.Fatalf("Save should succeed even when normalization fails: %v", err)
	}

	path, ok := store.Path(key)
	if !ok {
		t.Fatal("expected stored file")
	}
	got, _ := os.ReadFile(path)
	if !bytes.Equal(got, raw) {
		t.Error("expected raw upload bytes to be kept unchanged")
	}
}

func TestSaveSanitizesFilename(t *testing.T) {
	store := newTestStore(t)

	key, err := store.Save(bytes.NewReader(testJPEG(t, 10, 10)), `../../etc/my photo!!.jpg`)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if strings.ContainsAny(key, `/\`) {
		t.Errorf("key must not contain path separators: %q", key)
	}
	if !strings.HasSuffix(key, "my_photo.jpg") {
		t.Errorf("expected sanitized suffix my_photo.jpg, got %q", key)
	}
}

func TestDelete(t *testing.T) {
	store := newTestStore(t)

	key, _ := store.Save(bytes.NewReader(testJPEG(t, 10, 10)), "gone.jpg")
	if !store.Delete(key) {
		t.Error("expected Delete to report success for existing file")
	}
	if store.Delete(key) {
		t.Error("expected Delete to report false for already-deleted file")
	}
	if _, ok := store.Path(key); ok {
		t.Error("expected file to be gone after delete")
	}
}

func TestDeleteUnsafeKey(t *testing.T) {
	store := newTestStore(t)

	if store.Delete("") {
		t.Error("expected false for empty key")
	}
	if store.Delete("../outside.jpg") {
		t.Error("expected false for traversal key")
	}
}

func TestPathUnknownKey(t *testing.T) {
	store := newTestStore(t)

	if _, ok := store.Path("no-such-key.jpg"); ok {
		t.Error("expected false for unknown key")
	}
}
