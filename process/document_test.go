package process

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"
	"golang.org/x/text/encoding/unicode"

	"hilite/common"
	"hilite/config"
)

func TestDecodeDocument(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		doc, err := DecodeDocument("docs/a.json", strings.NewReader(
			`{"text":"Alice met Bob","entities":[{"id":"e1","type":"PER","offsets":[[0,5]]}],"relations":[{"pattern_id":"p1","type":"MEET","offsets":[[0,13]]}],"score":0.9}`))
		if err != nil {
			t.Fatalf("DecodeDocument() error = %v", err)
		}
		if doc.Name != "docs/a.json" {
			t.Errorf("Name = %q, want source name", doc.Name)
		}
		if doc.Text != "Alice met Bob" || len(doc.Entities) != 1 || len(doc.Relations) != 1 {
			t.Errorf("unexpected document: %+v", doc)
		}
		if doc.Relations[0].PatternID != "p1" {
			t.Errorf("PatternID = %q, want p1", doc.Relations[0].PatternID)
		}
	})

	t.Run("yaml keeps own name", func(t *testing.T) {
		doc, err := DecodeDocument("a.YML", strings.NewReader(`name: story
text: Alice met Bob
entities:
  - id: e1
    type: PER
    offsets: [[0, 5]]
`))
		if err != nil {
			t.Fatalf("DecodeDocument() error = %v", err)
		}
		if doc.Name != "story" {
			t.Errorf("Name = %q, want story", doc.Name)
		}
		if len(doc.Entities) != 1 || doc.Entities[0].Offsets[0][1] != 5 {
			t.Errorf("unexpected entities: %+v", doc.Entities)
		}
	})

	errs := []struct {
		name, src, data string
	}{
		{"unsupported", "a.txt", "text"},
		{"empty json", "a.json", ""},
		{"empty yaml", "a.yaml", ""},
		{"bad json", "a.json", `{"text": 1}`},
		{"bad yaml", "a.yaml", "text: [unclosed"},
	}
	for _, tt := range errs {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeDocument(tt.src, strings.NewReader(tt.data)); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint([]byte("settings"), []byte("source"))
	if len(a) != 64 {
		t.Errorf("fingerprint length = %d, want 64", len(a))
	}
	if a != Fingerprint([]byte("settings"), []byte("source")) {
		t.Error("fingerprint is not stable")
	}
	if a == Fingerprint([]byte("settings2"), []byte("source")) {
		t.Error("fingerprint does not depend on settings")
	}
	if a == Fingerprint([]byte("settings"), []byte("source2")) {
		t.Error("fingerprint does not depend on source")
	}
	// separator prevents shifting bytes between parts
	if Fingerprint([]byte("ab"), []byte("c")) == Fingerprint([]byte("a"), []byte("bc")) {
		t.Error("fingerprint parts are not separated")
	}
}

func TestNewAnnotator(t *testing.T) {
	cfg := config.AnnotationConfig{
		Policy:        common.PolicyBestEffort,
		Strategy:      common.StrategyNest,
		Offsets:       common.OffsetUnitRune,
		RelationClass: "rel",
		SlugFallback:  true,
		Classes:       map[string]string{"PER": "person"},
	}
	ann := NewAnnotator(&cfg, zaptest.NewLogger(t))

	doc, err := DecodeDocument("a.json", strings.NewReader(
		`{"text":"Åsa met Bob Smith","entities":[{"id":"e1","type":"PER","offsets":[[0,3]]},{"id":"e2","type":"Job Title","offsets":[[8,17]]},{"id":"e3","type":"X","offsets":[[9,99]]}]}`))
	if err != nil {
		t.Fatalf("DecodeDocument() error = %v", err)
	}
	got, err := ann.Annotate(doc)
	if err != nil {
		t.Fatalf("Annotate() error = %v", err)
	}
	want := `<span class="person">Åsa</span> met <span class="job-title">Bob Smith</span>`
	if got != want {
		t.Errorf("Annotate() =\n%s\nwant\n%s", got, want)
	}
}

func TestIsArchiveFile(t *testing.T) {
	tmpDir := t.TempDir()

	write := func(name string, data []byte) string {
		path := filepath.Join(tmpDir, name)
		if err := os.WriteFile(path, data, 0644); err != nil {
			t.Fatalf("Failed to create test file: %v", err)
		}
		return path
	}

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	if f, err := w.Create("doc.json"); err != nil {
		t.Fatalf("Failed to create file in zip: %v", err)
	} else {
		f.Write([]byte("{}"))
	}
	w.Close()

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"non-zip extension", write("test.txt", []byte("not a zip")), false},
		{"zip content with other extension", write("test.json", buf.Bytes()), false},
		{"zip extension but invalid content", write("bad.zip", []byte("not a real zip file")), false},
		{"short file", write("short.zip", []byte("PK")), false},
		{"valid zip", write("good.ZIP", buf.Bytes()), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := isArchiveFile(tt.path)
			if err != nil {
				t.Fatalf("isArchiveFile() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("isArchiveFile() = %v, want %v", got, tt.want)
			}
		})
	}

	if _, err := isArchiveFile("/nonexistent/file.zip"); err == nil {
		t.Error("Expected error for non-existent file, got nil")
	}
}

func TestSelectReader(t *testing.T) {
	const text = `{"text":"Ünïcode"}`

	utf16, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String(text)
	if err != nil {
		t.Fatalf("encode sample: %v", err)
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"plain", []byte(text)},
		{"utf8 bom", append([]byte{0xEF, 0xBB, 0xBF}, text...)},
		{"utf16 bom", []byte(utf16)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := io.ReadAll(selectReader(bytes.NewReader(tt.data)))
			if err != nil {
				t.Fatalf("ReadAll() error = %v", err)
			}
			if string(got) != text {
				t.Errorf("got %q, want %q", got, text)
			}
		})
	}
}

func TestBuildOutputPath(t *testing.T) {
	dst := filepath.Join("out", "dir")
	tests := []struct {
		name   string
		src    string
		nodirs bool
		want   string
	}{
		{"plain", "doc1.json", false, filepath.Join(dst, "doc1.html")},
		{"spaces and case", "My Doc 10.yaml", false, filepath.Join(dst, "my-doc-10.html")},
		{"keeps dirs", filepath.Join("News", "2024 Q1", "a.json"), false, filepath.Join(dst, "news", "2024-q1", "a.html")},
		{"nodirs", filepath.Join("News", "a.json"), true, filepath.Join(dst, "a.html")},
		{"nothing left", ".json", false, filepath.Join(dst, "document.html")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildOutputPath(tt.src, dst, tt.nodirs); got != tt.want {
				t.Errorf("buildOutputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}
