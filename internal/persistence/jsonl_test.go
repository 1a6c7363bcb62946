package persistence

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestJSONLExporter_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")
	e, err := NewJSONLExporter(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	recs := Records("run-1", sampleStore())
	if err := e.Export(context.Background(), recs); err != nil {
		t.Fatalf("export: %v", err)
	}
	if err := e.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	got, err := ReadAllJSONL(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !reflect.DeepEqual(got, recs) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, recs)
	}
}

func TestJSONLExporter_Appends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")
	recs := Records("run-1", sampleStore())
	for range 2 {
		e, err := NewJSONLExporter(path)
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		if err := e.Export(context.Background(), recs[:1]); err != nil {
			t.Fatalf("export: %v", err)
		}
		_ = e.Close()
	}
	got, err := ReadAllJSONL(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("records = %d, want 2", len(got))
	}
}

func TestReadAllJSONL_ReportsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mixed.jsonl")
	data := `{"run_id":"a","algorithm":"Quick Sort","key":"random_10_small"}
not json

{"run_id":"b"}
{"run_id":"c","algo`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := ReadAllJSONL(path)
	if err == nil {
		t.Fatal("expected an error for malformed lines")
	}
	for _, want := range []string{"mixed.jsonl:2:", "mixed.jsonl:5:"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q does not mention %s", err, want)
		}
	}
	if strings.Contains(err.Error(), "mixed.jsonl:3:") {
		t.Fatalf("blank line reported as malformed: %v", err)
	}
	if len(got) != 2 || got[0].Algorithm != "Quick Sort" || got[1].RunID != "b" {
		t.Fatalf("unexpected records: %+v", got)
	}
}
