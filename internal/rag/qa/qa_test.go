package qa

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/akolanti/docqa/internal/domain/commonModels"
	"github.com/akolanti/docqa/internal/rag/chunking"
	"github.com/akolanti/docqa/internal/rag/embedding"
	"github.com/akolanti/docqa/internal/rag/embedding/fakeEmbedding"
	"github.com/akolanti/docqa/internal/rag/index"
	"github.com/akolanti/docqa/internal/rag/llm/fakeLLM"
	"github.com/akolanti/docqa/internal/rag/vectorDB"
	"github.com/akolanti/docqa/internal/rag/vectorDB/flatIndex"
)

type mockStore struct {
	OnSearch func(ctx context.Context, query string, k int) ([]commonModels.ScoredDoc, error)
}

func (m *mockStore) SimilaritySearch(ctx context.Context, query string, k int) ([]commonModels.ScoredDoc, error) {
	return m.OnSearch(ctx, query, k)
}

func unit(source string, content string) *commonModels.Doc {
	return commonModels.NewDoc(content, commonModels.Metadata{commonModels.SourceKey: source})
}

func fourUnitCorpus() []*commonModels.File {
	return []*commonModels.File{{
		Name: "corpus.pdf",
		Docs: []*commonModels.Doc{unit("1-1", "a"), unit("1-2", "b"), unit("2-1", "c"), unit("2-2", "d")},
	}}
}

func hitsFor(files []*commonModels.File) []commonModels.ScoredDoc {
	var hits []commonModels.ScoredDoc
	for _, f := range files {
		for _, d := range f.Docs {
			hits = append(hits, commonModels.ScoredDoc{Doc: d, Score: 1})
		}
	}
	return hits
}

func folderWith(files []*commonModels.File) *index.FolderIndex {
	return &index.FolderIndex{
		Name:  index.DefaultName,
		Files: files,
		Index: &mockStore{OnSearch: func(_ context.Context, _ string, k int) ([]commonModels.ScoredDoc, error) {
			hits := hitsFor(files)
			return hits[:min(k, len(hits))], nil
		}},
	}
}

func TestGetSources_Exactness(t *testing.T) {
	files := fourUnitCorpus()
	got := GetSources([]string{"2-2", "1-1", "9-9"}, files)
	if len(got) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(got))
	}
	if got[0] != files[0].Docs[0] || got[1] != files[0].Docs[3] {
		t.Errorf("sources must be the corpus docs in corpus order, got %s, %s", got[0].Source(), got[1].Source())
	}
}

func TestGetSources_NoMatchIsEmptyNotNil(t *testing.T) {
	got := GetSources(nil, fourUnitCorpus())
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
	if got := GetSources([]string{" 1-1"}, fourUnitCorpus()); len(got) != 0 {
		t.Error("keys must match verbatim")
	}
}

func TestGetSources_AcrossFiles(t *testing.T) {
	files := []*commonModels.File{
		{Name: "a", Docs: []*commonModels.Doc{unit("1-1", "a1")}},
		{Name: "b", Docs: []*commonModels.Doc{unit("1-1", "b1"), unit("1-2", "b2")}},
	}
	got := GetSources([]string{"1-1"}, files)
	if len(got) != 2 || got[0].PageContent != "a1" || got[1].PageContent != "b1" {
		t.Errorf("unexpected sources %v", got)
	}
}

func TestParseOutput(t *testing.T) {
	tests := []struct {
		name       string
		output     string
		wantAnswer string
		wantKeys   []string
		wantCited  bool
	}{
		{"keys", "The answer is 42. SOURCES: 1-1, 2-2", "The answer is 42.", []string{"1-1", "2-2"}, true},
		{"no marker", "I do not know.", "I do not know.", nil, false},
		{"empty list", "NULL <Probability: low>\nSOURCES: ", "NULL <Probability: low>", []string{}, true},
		{"trailing whitespace", "Answer\nSOURCES: 1-1, 1-2\n", "Answer", []string{"1-1", "1-2"}, true},
		{"last marker wins", "a SOURCES: 1-1 b SOURCES: 3-1", "a", []string{"3-1"}, true},
		{"empty entries dropped", "x SOURCES: 1-1, , 1-2, ", "x", []string{"1-1", "1-2"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			answer, keys, cited := ParseOutput(tt.output)
			if answer != tt.wantAnswer {
				t.Errorf("answer = %q, want %q", answer, tt.wantAnswer)
			}
			if cited != tt.wantCited {
				t.Errorf("cited = %v, want %v", cited, tt.wantCited)
			}
			if strings.Join(keys, "|") != strings.Join(tt.wantKeys, "|") || (keys == nil) != (tt.wantKeys == nil) {
				t.Errorf("keys = %#v, want %#v", keys, tt.wantKeys)
			}
		})
	}
}

func TestParseConfidence(t *testing.T) {
	tests := []struct {
		output string
		want   Confidence
	}{
		{"x <Probability: high>\nSOURCES: 1-1", ConfidenceHigh},
		{"x <probability: Medium> SOURCES: 1-1", ConfidenceMedium},
		{"NULL <Probability: low>", ConfidenceLow},
		{"no tag", ConfidenceUnknown},
	}
	for _, tt := range tests {
		if got := ParseConfidence(tt.output); got != tt.want {
			t.Errorf("ParseConfidence(%q) = %s, want %s", tt.output, got, tt.want)
		}
	}
	if !HasLowProbability("NULL <Probability: low>") || HasLowProbability("y <Probability: high>") {
		t.Error("HasLowProbability mismatch")
	}
}

func TestPopDocsUpToLimit(t *testing.T) {
	hits := hitsFor(fourUnitCorpus())
	if got := PopDocsUpToLimit("q", hits, 0); len(got) != 4 {
		t.Errorf("zero limit should keep everything, got %d", len(got))
	}

	two := promptLength("q", hits[:2])
	got := PopDocsUpToLimit("q", hits, two)
	if len(got) != 2 || got[0].Doc.Source() != "1-1" {
		t.Errorf("expected the first two hits, got %d", len(got))
	}
	if got := PopDocsUpToLimit("q", hits, 10); len(got) != 0 {
		t.Errorf("tiny limit should drop everything, got %d", len(got))
	}
}

func TestRenderPrompt(t *testing.T) {
	p := RenderPrompt("Wer bist du?", []*commonModels.Doc{unit("3-2", "Ich bin ein Text.")})
	for _, want := range []string{"QUESTION: Wer bist du?", "Content: Ich bin ein Text.\nSource: 3-2", "SOURCES", "NULL", "<Probability: high>"} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if !strings.HasSuffix(p, "FINAL ANSWER:") {
		t.Error("prompt must end with the answer cue")
	}
}

func TestGetAnswer(t *testing.T) {
	tests := []struct {
		name        string
		output      string
		returnAll   bool
		wantSources []string
		wantCited   bool
	}{
		{"resolves cited keys", "Because. <Probability: high> SOURCES: 2-2, 1-1, 9-9", false, []string{"1-1", "2-2"}, true},
		{"no marker gives no sources", "I cannot tell.", false, []string{}, false},
		{"empty marker gives no sources", "NULL <Probability: low>\nSOURCES: ", false, []string{}, true},
		{"return all ignores citations", "I cannot tell.", true, []string{"1-1", "1-2", "2-1", "2-2"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			folder := folderWith(fourUnitCorpus())
			res, err := GetAnswer(context.Background(), "why?", folder, &fakeLLM.Provider{Output: tt.output}, Options{K: 5, ReturnAll: tt.returnAll})
			if err != nil {
				t.Fatalf("GetAnswer failed: %v", err)
			}
			got := make([]string, len(res.Sources))
			for i, d := range res.Sources {
				got[i] = d.Source()
			}
			if strings.Join(got, ",") != strings.Join(tt.wantSources, ",") {
				t.Errorf("sources = %v, want %v", got, tt.wantSources)
			}
			if res.Sources == nil {
				t.Error("sources must not be nil")
			}
			if res.Cited != tt.wantCited {
				t.Errorf("cited = %v", res.Cited)
			}
			if len(res.Retrieved) != 4 {
				t.Errorf("retrieved = %d", len(res.Retrieved))
			}
		})
	}
}

func TestGetAnswer_PromptCarriesRetrievedKeys(t *testing.T) {
	var prompt string
	provider := &fakeLLM.Provider{OnGenerate: func(_ context.Context, p string) (string, error) {
		prompt = p
		return "ok SOURCES: 1-1", nil
	}}
	_, err := GetAnswer(context.Background(), "q", folderWith(fourUnitCorpus()), provider, Options{K: 2})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(prompt, "Source: 1-2") || strings.Contains(prompt, "Source: 2-1") {
		t.Errorf("prompt should hold exactly the top 2 hits:\n%s", prompt)
	}
}

func TestGetAnswer_ReturnAllIgnoresPromptLimit(t *testing.T) {
	var prompt string
	provider := &fakeLLM.Provider{OnGenerate: func(_ context.Context, p string) (string, error) {
		prompt = p
		return "ok SOURCES: 1-1", nil
	}}
	limit := promptLength("q", hitsFor(fourUnitCorpus())[:2])

	res, err := GetAnswer(context.Background(), "q", folderWith(fourUnitCorpus()), provider, Options{K: 5, ReturnAll: true, MaxPromptLength: limit})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(prompt, "Source: 2-1") {
		t.Errorf("prompt should have been trimmed to two excerpts:\n%s", prompt)
	}
	if len(res.Sources) != 4 {
		t.Errorf("return all should give every retrieved chunk, got %d", len(res.Sources))
	}
}

func TestGetAnswer_ProviderErrorPropagates(t *testing.T) {
	quota := errors.New("429 quota exceeded")
	provider := &fakeLLM.Provider{OnGenerate: func(context.Context, string) (string, error) { return "", quota }}

	res, err := GetAnswer(context.Background(), "q", folderWith(fourUnitCorpus()), provider, DefaultOptions())
	if res != nil {
		t.Error("no answer may be built on failure")
	}
	if !errors.Is(err, quota) {
		t.Errorf("original error lost: %v", err)
	}
	if !errors.Is(err, commonModels.ErrGenerationFailure) {
		t.Errorf("error not classified as generation failure: %v", err)
	}
}

func TestGetAnswer_SearchError(t *testing.T) {
	boom := errors.New("index offline")
	folder := &index.FolderIndex{Index: &mockStore{OnSearch: func(context.Context, string, int) ([]commonModels.ScoredDoc, error) {
		return nil, boom
	}}}
	called := false
	provider := &fakeLLM.Provider{OnGenerate: func(context.Context, string) (string, error) { called = true; return "", nil }}

	if _, err := GetAnswer(context.Background(), "q", folder, provider, DefaultOptions()); !errors.Is(err, boom) {
		t.Fatalf("got %v", err)
	}
	if called {
		t.Error("provider must not be called after a failed search")
	}
	if _, err := GetAnswer(context.Background(), "q", nil, provider, DefaultOptions()); !errors.Is(err, commonModels.ErrIndexNotFound) {
		t.Errorf("nil folder: got %v", err)
	}
}

func TestAnswerSignals(t *testing.T) {
	a := &AnswerWithSources{Answer: "NULL <Probability: low>", Confidence: ConfidenceLow}
	if !a.CannotAnswer() || !a.IsLowConfidence() {
		t.Error("NULL answer should be flagged")
	}
	b := &AnswerWithSources{Answer: "Paris <Probability: high>", Confidence: ConfidenceHigh}
	if b.CannotAnswer() || b.IsLowConfidence() {
		t.Error("real answer flagged")
	}
}

// Hello World end to end through the real chunker and flat index.
func TestEndToEnd_HelloWorld(t *testing.T) {
	file := &commonModels.File{Name: "hello.txt", Id: "h", Docs: []*commonModels.Doc{
		commonModels.NewDoc("Hello World", commonModels.Metadata{commonModels.PageKey: 1, commonModels.SourceKey: "p-1"}),
	}}
	chunked := chunking.ChunkFile(file, 300, 0)
	if len(chunked.Docs) != 1 || chunked.Docs[0].Source() != "1-1" {
		t.Fatalf("unexpected chunks %+v", chunked.Docs)
	}

	r := index.NewRegistry()
	r.RegisterEmbedding("debug", func(context.Context) (embedding.Embedder, error) { return fakeEmbedding.New(32), nil })
	r.RegisterVectorStore("debug", func(ctx context.Context, docs []*commonModels.Doc, emb embedding.Embedder) (vectorDB.VectorStore, error) {
		return flatIndex.FromDocuments(ctx, docs, emb)
	})
	folder, err := r.EmbedFiles(context.Background(), []*commonModels.File{chunked}, "debug", "debug")
	if err != nil {
		t.Fatal(err)
	}

	res, err := GetAnswer(context.Background(), "What does it say?", folder, &fakeLLM.Provider{Output: "The answer is Hello World. SOURCES: 1-1"}, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Sources) != 1 || res.Sources[0] != chunked.Docs[0] {
		t.Fatalf("expected exactly the hello world chunk, got %v", res.Sources)
	}
	if res.Answer != "The answer is Hello World." {
		t.Errorf("answer = %q", res.Answer)
	}
}
