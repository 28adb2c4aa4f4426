package whisperapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/op5no29/subtitle-generator/internal/domain/language"
	"github.com/op5no29/subtitle-generator/internal/types"
)

const (
	defaultBaseURL = "https://api.openai.com"
	defaultModel   = "whisper-1"
	uploadTimeout  = 30 * time.Minute

	// The hosted endpoint rejects larger uploads; callers split longer
	// audio into chunks before transcribing.
	MaxUploadBytes = 25 * 1024 * 1024
)

type Adapter struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

func New(apiKey, model, baseURL string) *Adapter {
	if model == "" {
		model = defaultModel
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Adapter{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: uploadTimeout},
	}
}

// wire mirrors the verbose JSON response shape of the transcription endpoint.
type wire struct {
	Text     string `json:"text"`
	Language string `json:"language"`
	Words    []struct {
		Word  string   `json:"word"`
		Start *float64 `json:"start"`
		End   *float64 `json:"end"`
	} `json:"words"`
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

// Transcribe uploads audioPath and returns the recognized transcript with
// word-level timing where the service provides it.
func (a *Adapter) Transcribe(ctx context.Context, audioPath string, lang language.Language) (types.TranscriptionResult, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return types.TranscriptionResult{}, fmt.Errorf("open audio: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return types.TranscriptionResult{}, fmt.Errorf("stat audio: %w", err)
	}
	if stat.Size() == 0 {
		// Nothing to recognize; an empty result, not an error.
		return types.TranscriptionResult{Language: string(lang)}, nil
	}
	if stat.Size() > MaxUploadBytes {
		return types.TranscriptionResult{}, fmt.Errorf("audio file is %.1fMB, exceeds the %dMB upload limit",
			float64(stat.Size())/(1024*1024), MaxUploadBytes/(1024*1024))
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("model", a.model); err != nil {
		return types.TranscriptionResult{}, err
	}
	if err := mw.WriteField("response_format", "verbose_json"); err != nil {
		return types.TranscriptionResult{}, err
	}
	if err := mw.WriteField("timestamp_granularities[]", "word"); err != nil {
		return types.TranscriptionResult{}, err
	}
	if err := mw.WriteField("temperature", "0"); err != nil {
		return types.TranscriptionResult{}, err
	}
	if lang != language.Auto && lang != language.Unknown {
		if err := mw.WriteField("language", string(lang)); err != nil {
			return types.TranscriptionResult{}, err
		}
	}
	part, err := mw.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return types.TranscriptionResult{}, err
	}
	if _, err := io.Copy(part, f); err != nil {
		return types.TranscriptionResult{}, fmt.Errorf("copy audio into form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return types.TranscriptionResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/v1/audio/transcriptions", &body)
	if err != nil {
		return types.TranscriptionResult{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.apiKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := a.client.Do(req)
	if err != nil {
		return types.TranscriptionResult{}, fmt.Errorf("transcription request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return types.TranscriptionResult{}, fmt.Errorf("transcription API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var w wire
	if err := json.NewDecoder(resp.Body).Decode(&w); err != nil {
		return types.TranscriptionResult{}, fmt.Errorf("decode response: %w", err)
	}
	return w.toResult(), nil
}

func (w wire) toResult() types.TranscriptionResult {
	out := types.TranscriptionResult{
		Text:     strings.TrimSpace(w.Text),
		Language: w.Language,
	}
	for _, word := range w.Words {
		out.Words = append(out.Words, types.Word{
			Text:  strings.TrimSpace(word.Word),
			Start: word.Start,
			End:   word.End,
		})
	}
	for _, seg := range w.Segments {
		out.Segments = append(out.Segments, types.CoarseSegment{
			Start: seg.Start,
			End:   seg.End,
			Text:  strings.TrimSpace(seg.Text),
		})
	}
	return out
}
