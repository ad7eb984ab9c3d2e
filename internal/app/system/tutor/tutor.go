// Package tutor runs the league's AI study assistant on Gemini. Replies are
// streamed; each chunk may carry web sources from Google Search grounding.
package tutor

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/dalemusser/leaguehub/internal/domain/models"
	"google.golang.org/genai"
)

const (
	DefaultModel = "gemini-3-pro-preview"
	Temperature  = 0.6

	// DefaultSourceTitle labels a source the search tool returned untitled.
	DefaultSourceTitle = "Fonte Científica"

	Greeting = "Saudações acadêmicas! Sou a Iris, sua tutora de alta performance. Ativei meu modo de streaming e pesquisa científica em tempo real. Como posso elevar seu conhecimento científico hoje?"
	Apology  = "Desculpe, tive um erro ao processar sua dúvida. Verifique sua conexão acadêmica."
)

// ErrNotConfigured is returned when no API key was provided.
var ErrNotConfigured = errors.New("tutor: gemini api key not configured")

// Source is one grounding link.
type Source struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// Chunk is one streamed piece of a reply.
type Chunk struct {
	Text    string
	Sources []Source
}

// Streamer produces reply chunks for a prompt.
type Streamer interface {
	Stream(ctx context.Context, instruction, message string) iter.Seq2[Chunk, error]
}

// League names the league in the system instruction.
type League struct {
	Name       string
	Acronym    string
	University string
}

// Client streams replies from Gemini.
type Client struct {
	gc    *genai.Client
	model string
}

// New connects to the Gemini API.
func New(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	if model == "" {
		model = DefaultModel
	}
	return &Client{gc: gc, model: model}, nil
}

// Stream sends message with the given system instruction, Google Search
// enabled, and yields chunks as they arrive.
func (c *Client) Stream(ctx context.Context, instruction, message string) iter.Seq2[Chunk, error] {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(instruction, genai.RoleUser),
		Temperature:       genai.Ptr[float32](Temperature),
		Tools:             []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	}
	return func(yield func(Chunk, error) bool) {
		for resp, err := range c.gc.Models.GenerateContentStream(ctx, c.model, genai.Text(message), cfg) {
			if err != nil {
				yield(Chunk{}, err)
				return
			}
			if !yield(chunkOf(resp), nil) {
				return
			}
		}
	}
}

func chunkOf(resp *genai.GenerateContentResponse) Chunk {
	ch := Chunk{Text: resp.Text()}
	if len(resp.Candidates) == 0 || resp.Candidates[0].GroundingMetadata == nil {
		return ch
	}
	for _, gc := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
		if gc == nil || gc.Web == nil || gc.Web.URI == "" {
			continue
		}
		ch.Sources = append(ch.Sources, Source{Title: gc.Web.Title, URI: gc.Web.URI})
	}
	return ch
}

// Transcript accumulates a streamed reply.
type Transcript struct {
	Text    string   `json:"text"`
	Sources []Source `json:"links"`
	seen    map[string]struct{}
}

// Add appends a chunk's text and any source not seen before, by URI.
func (t *Transcript) Add(c Chunk) {
	t.Text += c.Text
	if t.seen == nil {
		t.seen = map[string]struct{}{}
	}
	for _, s := range c.Sources {
		if s.URI == "" {
			continue
		}
		if _, dup := t.seen[s.URI]; dup {
			continue
		}
		t.seen[s.URI] = struct{}{}
		if strings.TrimSpace(s.Title) == "" {
			s.Title = DefaultSourceTitle
		}
		t.Sources = append(t.Sources, s)
	}
}

// Instruction renders the system instruction with the roster and the
// project list.
func Instruction(l League, roster []models.Member, projects []models.Project) string {
	var members strings.Builder
	for _, m := range roster {
		fmt.Fprintf(&members, "- %s: %s\n", m.FullName, m.Role)
	}
	var projs strings.Builder
	for _, p := range projects {
		fmt.Fprintf(&projs, "- %s (Orientador: %s): %s [Status: %s]\n", p.Title, p.Advisor, p.Description, p.StatusLabel())
	}
	membersList := strings.TrimRight(members.String(), "\n")
	if membersList == "" {
		membersList = "Nenhum membro cadastrado no momento."
	}
	projectsList := strings.TrimRight(projs.String(), "\n")
	if projectsList == "" {
		projectsList = "Nenhum projeto cadastrado no momento."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Você é a \"Iris\", uma inteligência artificial de alta performance e tutora acadêmica oficial da %s (%s).\n", l.Name, l.Acronym)
	fmt.Fprintf(&b, "Sua missão é atuar como uma guia completa para os alunos da %s, fornecendo suporte tanto em questões administrativas da liga quanto em desafios acadêmicos complexos.\n\n", l.University)
	b.WriteString("CAPACIDADES AVANÇADAS:\n")
	b.WriteString("1. PESQUISA EM TEMPO REAL: Você tem acesso à internet via Google Search. Use-o para responder sobre atualidades, questões de provas, artigos científicos recentes e qualquer outro tema de propósito geral.\n")
	b.WriteString("2. TUTORIA ACADÊMICA: Quando um aluno tiver uma dúvida de estudo, forneça explicações detalhadas, raciocínio passo a passo e resolva problemas complexos com didática.\n")
	fmt.Fprintf(&b, "3. CONHECIMENTO %s: Você conhece todos os dados do nosso banco de dados.\n\n", l.Acronym)
	fmt.Fprintf(&b, "ESTRUTURA DA %s (Membros e Cargos):\n%s\n\n", l.Acronym, membersList)
	fmt.Fprintf(&b, "PROJETOS E PESQUISAS CIENTÍFICAS:\n%s\n\n", projectsList)
	b.WriteString("DIRETRIZES DE COMPORTAMENTO:\n")
	fmt.Fprintf(&b, "- Se perguntarem sobre a diretoria ou projetos, use os dados da %s acima.\n", l.Acronym)
	b.WriteString("- Para dúvidas gerais, use seu conhecimento vasto e as ferramentas de pesquisa.\n")
	b.WriteString("- Seja sempre profissional, científica, inspiradora e didática.\n")
	b.WriteString("- Responda em Markdown.\n")
	return b.String()
}

// Reply drains s for message, calling onUpdate with the accumulated
// transcript after every chunk. On a stream error the partial transcript is
// returned with the error.
func Reply(ctx context.Context, s Streamer, instruction, message string, onUpdate func(Transcript)) (Transcript, error) {
	var t Transcript
	for ch, err := range s.Stream(ctx, instruction, message) {
		if err != nil {
			return t, err
		}
		t.Add(ch)
		if onUpdate != nil {
			onUpdate(t)
		}
	}
	return t, nil
}
