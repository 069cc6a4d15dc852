package gallery

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mikey/slack-image-bot/internal/core"
	"github.com/mikey/slack-image-bot/internal/utils"
	"go.uber.org/zap"
)

var week5 = core.Period{Type: core.RequestTypeWeek, Number: 5, Year: 2023}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(srv.URL+"/", srv.Client(), utils.NewTextProcessor(0, nil), zap.NewNop())
}

func TestListImages(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/listImages.php" {
			t.Errorf("path = %q, want /listImages.php", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("type") != "week" || q.Get("year") != "2023" || q.Get("number") != "5" {
			t.Errorf("query = %v, want type=week year=2023 number=5", q)
		}
		_, _ = io.WriteString(w, `["a.jpg","b.jpg"]`)
	})

	files, err := client.ListImages(context.Background(), week5)
	if err != nil {
		t.Fatalf("ListImages() error = %v", err)
	}
	if len(files) != 2 || files[0] != "a.jpg" || files[1] != "b.jpg" {
		t.Fatalf("ListImages() = %v, want [a.jpg b.jpg]", files)
	}
}

func TestListImagesErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		status     int
		body       string
		wantKind   error
		wantStatus int
	}{
		{"not found", http.StatusNotFound, "missing", core.ErrListNotFound, http.StatusNotFound},
		{"server error", http.StatusInternalServerError, "boom", core.ErrList, http.StatusInternalServerError},
		{"malformed body", http.StatusOK, "not json", core.ErrList, 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := client.ListImages(context.Background(), week5)
			if !errors.Is(err, tt.wantKind) {
				t.Fatalf("ListImages() error = %v, want %v", err, tt.wantKind)
			}
			if got := core.StatusCode(err); got != tt.wantStatus {
				t.Errorf("StatusCode() = %d, want %d", got, tt.wantStatus)
			}
		})
	}
}

func TestGetMetadata(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		body        string
		wantCaption string
	}{
		{"iptc preferred", `{"url":"https://img/a.jpg","exif":"Exif / Title","iptc":"Anna / Sunset"}`, "Anna / Sunset"},
		{"empty iptc falls back", `{"url":"https://img/a.jpg","exif":"Bob / Lake","iptc":""}`, "Bob / Lake"},
		{"null iptc falls back", `{"url":"https://img/a.jpg","exif":"Bob / Lake","iptc":null}`, "Bob / Lake"},
		{"nul padded", `{"url":"https://img/a.jpg","exif":"Bob / Lake\u0000\u0000"}`, "Bob / Lake"},
		{"no caption", `{"url":"https://img/a.jpg"}`, ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/imageMetadata.php" {
					t.Errorf("path = %q, want /imageMetadata.php", r.URL.Path)
				}
				if got := r.URL.Query().Get("filename"); got != "a.jpg" {
					t.Errorf("filename = %q, want a.jpg", got)
				}
				_, _ = io.WriteString(w, tt.body)
			})

			meta, err := client.GetMetadata(context.Background(), week5, "a.jpg")
			if err != nil {
				t.Fatalf("GetMetadata() error = %v", err)
			}
			if meta.URL != "https://img/a.jpg" {
				t.Errorf("URL = %q, want https://img/a.jpg", meta.URL)
			}
			if meta.Caption != tt.wantCaption {
				t.Errorf("Caption = %q, want %q", meta.Caption, tt.wantCaption)
			}
		})
	}
}

func TestGetMetadataDecodeErrors(t *testing.T) {
	t.Parallel()

	for _, body := range []string{"<html>oops</html>", `{"exif":"Bob / Lake"}`, `{"url":42}`} {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, body)
		})

		_, err := client.GetMetadata(context.Background(), week5, "a.jpg")
		if !errors.Is(err, core.ErrMetadataDecode) {
			t.Fatalf("GetMetadata(%q) error = %v, want ErrMetadataDecode", body, err)
		}

		var metaErr *core.MetadataError
		if !errors.As(err, &metaErr) {
			t.Fatalf("GetMetadata(%q) error is not a MetadataError", body)
		}
		if metaErr.Body != body || metaErr.Filename != "a.jpg" {
			t.Errorf("MetadataError = {%q, %q}, want {a.jpg, %q}", metaErr.Filename, metaErr.Body, body)
		}
	}
}

func TestFetchImage(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.jpg" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte{0xff, 0xd8, 0xff})
	})

	data, err := client.FetchImage(context.Background(), client.baseURL+"a.jpg")
	if err != nil {
		t.Fatalf("FetchImage() error = %v", err)
	}
	if len(data) != 3 {
		t.Errorf("FetchImage() returned %d bytes, want 3", len(data))
	}

	_, err = client.FetchImage(context.Background(), client.baseURL+"missing.jpg")
	if !errors.Is(err, core.ErrImageDownload) {
		t.Fatalf("FetchImage() error = %v, want ErrImageDownload", err)
	}
	if got := core.StatusCode(err); got != http.StatusNotFound {
		t.Errorf("StatusCode() = %d, want 404", got)
	}
}
