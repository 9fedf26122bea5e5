package commonModels

import (
	"errors"
	"fmt"
	"testing"
)

func TestFileClone(t *testing.T) {
	doc := NewDoc("test content", Metadata{PageKey: "1"})
	file := &File{Name: "test_file", Id: "1234", Metadata: map[string]any{"author": "test"}, Docs: []*Doc{doc}}

	clone := file.Clone()

	if clone == file {
		t.Fatal("clone is the same pointer")
	}
	if clone.Name != file.Name || clone.Id != file.Id {
		t.Errorf("identity not copied: %+v", clone)
	}
	if clone.Docs[0] == file.Docs[0] {
		t.Error("docs were not deep copied")
	}
	if clone.Docs[0].PageContent != doc.PageContent || clone.Docs[0].Page() != 1 {
		t.Errorf("doc attributes differ: %+v", clone.Docs[0])
	}

	clone.Metadata["author"] = "someone else"
	clone.Docs[0].Metadata[SourceKey] = "1-1"
	clone.Docs = append(clone.Docs, NewDoc("extra", nil))

	if file.Metadata["author"] != "test" {
		t.Error("file metadata aliased by clone")
	}
	if _, ok := doc.Metadata[SourceKey]; ok {
		t.Error("doc metadata aliased by clone")
	}
	if len(file.Docs) != 1 {
		t.Error("docs slice aliased by clone")
	}
}

func TestDocAccessors(t *testing.T) {
	d := NewDoc("x", Metadata{SourceKey: "2-3", PageKey: 2, ChunkKey: 3, FileNameKey: "a.pdf", FileIdKey: "abc"})
	if d.Source() != "2-3" || d.Page() != 2 || d.Chunk() != 3 || d.FileName() != "a.pdf" || d.FileId() != "abc" {
		t.Errorf("accessors returned wrong values: %+v", d.Metadata)
	}

	empty := NewDoc("y", nil)
	if empty.Page() != 1 {
		t.Errorf("missing page should default to 1, got %d", empty.Page())
	}
	if empty.Source() != "" {
		t.Errorf("missing source should be empty, got %q", empty.Source())
	}
}

func TestErrorTaxonomy(t *testing.T) {
	cause := errors.New("401 invalid api key")
	tests := []struct {
		name   string
		err    error
		target error
	}{
		{"format", &UnsupportedFormatError{Name: "a.xyz", Extension: ".xyz"}, ErrUnsupportedFormat},
		{"unreadable", &UnreadableContentError{Name: "scan.pdf"}, ErrUnreadableContent},
		{"extraction", &ExtractionError{Name: "broken.pdf", Err: cause}, ErrExtractionFailure},
		{"strategy", &UnsupportedStrategyError{Kind: "embedding", Name: "nope"}, ErrUnsupportedStrategy},
		{"generation", &GenerationError{Provider: "openai", Err: cause}, ErrGenerationFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("outer: %w", tt.err)
			if !errors.Is(wrapped, tt.target) {
				t.Errorf("errors.Is(%v, %v) = false", wrapped, tt.target)
			}
		})
	}

	genErr := &GenerationError{Provider: "openai", Err: cause}
	if !errors.Is(genErr, cause) {
		t.Error("generation error must unwrap to the provider error")
	}
	if !errors.Is(&ExtractionError{Name: "a.pdf", Err: cause}, cause) {
		t.Error("extraction error must unwrap to the parser error")
	}
}
