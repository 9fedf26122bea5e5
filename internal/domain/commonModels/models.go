package commonModels

import (
	"maps"
	"strconv"
)

type DocType string

var PDF DocType = "PDF"
var DOCX DocType = "DOCX"
var TXT DocType = "TXT"
var IMAGE DocType = "IMAGE"
var ERR DocType = "ERROR"

// Metadata keys carried by every Doc.
const (
	SourceKey   = "source"
	PageKey     = "page"
	ChunkKey    = "chunk"
	FileNameKey = "file_name"
	FileIdKey   = "file_id"
)

type Metadata map[string]any

// Doc is one addressable text unit: a page before chunking, a chunk after.
type Doc struct {
	PageContent string   `json:"page_content"`
	Metadata    Metadata `json:"metadata"`
}

// File is an uploaded document. Id is the hex md5 of its raw bytes.
type File struct {
	Name     string         `json:"name"`
	Id       string         `json:"id"`
	Kind     DocType        `json:"kind"`
	Metadata map[string]any `json:"metadata"`
	Docs     []*Doc         `json:"docs"`
}

type ScoredDoc struct {
	Doc   *Doc
	Score float32
}

func NewDoc(content string, metadata Metadata) *Doc {
	if metadata == nil {
		metadata = Metadata{}
	}
	return &Doc{PageContent: content, Metadata: metadata}
}

func (d *Doc) Source() string {
	s, _ := d.Metadata[SourceKey].(string)
	return s
}

// Page returns the 1-based page number, 1 when unset.
func (d *Doc) Page() int {
	return intValue(d.Metadata[PageKey], 1)
}

func (d *Doc) Chunk() int {
	return intValue(d.Metadata[ChunkKey], 0)
}

func (d *Doc) FileName() string {
	s, _ := d.Metadata[FileNameKey].(string)
	return s
}

func (d *Doc) FileId() string {
	s, _ := d.Metadata[FileIdKey].(string)
	return s
}

func (d *Doc) Clone() *Doc {
	return &Doc{PageContent: d.PageContent, Metadata: maps.Clone(d.Metadata)}
}

// Clone returns a File that shares nothing mutable with f.
func (f *File) Clone() *File {
	docs := make([]*Doc, len(f.Docs))
	for i, d := range f.Docs {
		docs[i] = d.Clone()
	}
	metadata := maps.Clone(f.Metadata)
	if metadata == nil {
		metadata = map[string]any{}
	}
	return &File{
		Name:     f.Name,
		Id:       f.Id,
		Kind:     f.Kind,
		Metadata: metadata,
		Docs:     docs,
	}
}

func intValue(v any, fallback int) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case string:
		if i, err := strconv.Atoi(n); err == nil {
			return i
		}
	}
	return fallback
}
