// agentsim is a development stand-in for the external sales agent. It
// accepts the chat dispatch webhook, acknowledges immediately, and posts a
// reply back to the relay's receive endpoint. With OPENAI_API_KEY set the
// reply comes from a model; otherwise a canned product listing is used, so
// the structuring pipeline can be exercised offline.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const cannedListing = "¡Claro! Estos son los productos disponibles:\n\n" +
	"### Portátiles:\n" +
	"1. **Dell XPS 15** - **Descripción**: Portátil de alto rendimiento. - **Precio**: $2,199.99 - **Stock**: 25 unidades disponibles\n" +
	"2. **MacBook Air M2** - **Descripción**: Ultraligero con chip M2. - **Precio**: $1,299.00 - **Stock**: 30 unidades disponibles\n\n" +
	"¿Quieres ver más detalles de alguno? 😊"

const systemPrompt = "Eres un asesor de ventas de tecnología. Responde en español. " +
	"Cuando listes productos usa exactamente este formato por producto: " +
	"`N. **Nombre** - **Descripción**: texto. - **Precio**: $precio - **Stock**: N unidades disponibles` " +
	"con encabezados `### Categoría:` por categoría."

type dispatchPayload struct {
	Message   string `json:"message"`
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
	Timestamp string `json:"timestamp"`
}

type replyPayload struct {
	SessionID       string            `json:"session_id"`
	Message         string            `json:"message"`
	Recommendations []json.RawMessage `json:"recommendations"`
}

type agent struct {
	callbackURL string
	client      *http.Client
	openaiCli   *openai.Client
	model       string
}

func main() {
	addr := flag.String("addr", ":9090", "listen address")
	callback := flag.String("callback", "http://localhost:8080/api/v1/chat/receive", "relay receive endpoint")
	flag.Parse()

	a := &agent{
		callbackURL: *callback,
		client:      &http.Client{Timeout: 30 * time.Second},
		model:       openai.GPT4oMini,
	}
	if key := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); key != "" {
		a.openaiCli = openai.NewClient(key)
		if model := strings.TrimSpace(os.Getenv("OPENAI_MODEL")); model != "" {
			a.model = model
		}
		log.Printf("[agentsim] using OpenAI model %s", a.model)
	} else {
		log.Println("[agentsim] OPENAI_API_KEY not set, replying with canned listing")
	}

	http.HandleFunc("/", a.handleDispatch)
	log.Printf("[agentsim] listening on %s, replying to %s", *addr, a.callbackURL)
	if err := http.ListenAndServe(*addr, nil); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func (a *agent) handleDispatch(w http.ResponseWriter, r *http.Request) {
	var payload dispatchPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	// Acknowledge first; the reply goes back out of band like the real agent.
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})

	go a.reply(payload)
}

func (a *agent) reply(payload dispatchPayload) {
	message := cannedListing
	if a.openaiCli != nil {
		generated, err := a.generate(payload.Message)
		if err != nil {
			log.Printf("[agentsim] generation failed, using canned listing: %v", err)
		} else {
			message = generated
		}
	}

	body, err := json.Marshal(replyPayload{
		SessionID:       payload.SessionID,
		Message:         message,
		Recommendations: []json.RawMessage{},
	})
	if err != nil {
		log.Printf("[agentsim] marshal reply: %v", err)
		return
	}

	resp, err := a.client.Post(a.callbackURL, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Printf("[agentsim] reply delivery failed: %v", err)
		return
	}
	defer resp.Body.Close()
	log.Printf("[agentsim] replied to session %s (%s)", payload.SessionID, resp.Status)
}

func (a *agent) generate(userMessage string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer cancel()

	resp, err := a.openaiCli.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userMessage},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return cannedListing, nil
	}
	return resp.Choices[0].Message.Content, nil
}
