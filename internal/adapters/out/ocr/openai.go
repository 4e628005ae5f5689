// Package ocr extracts structured receipt data from receipt images using the
// OpenAI vision API. Extraction failures are reported as ExtractorUnavailable
// so the submission path can degrade instead of rejecting the shopper.
package ocr

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"grocery/internal/core/domain/model/kernel"
	"grocery/internal/core/domain/model/receipt"
	"grocery/internal/core/ports"
	"grocery/internal/pkg/errs"

	"github.com/sashabaranov/go-openai"
)

// extractionPrompt instructs the model to return the receipt contents as a
// fixed JSON shape with all amounts in integer minor units.
const extractionPrompt = `Read the receipt in the image. Respond with JSON only, in this exact shape:
{"items":[{"name":"...","quantity":1,"price_minor":0}],"total_minor":0,"confidence":0.0}
Prices are integers in minor currency units (1/100 of the display unit).
"confidence" is your overall confidence in the extraction, between 0 and 1.`

// presignExpiry bounds how long the vision API can fetch the receipt image.
const presignExpiry = 15 * time.Minute

// OpenAIReceiptExtractor implements ReceiptExtractor with the OpenAI chat
// completion API in vision mode. The stored image reference is resolved to a
// presigned URL so the API can fetch the image without bucket credentials.
type OpenAIReceiptExtractor struct {
	client *openai.Client
	images ports.ImageStore
	model  string
}

// NewOpenAIReceiptExtractor creates an extractor backed by the given client.
// An empty model selects GPT-4o mini.
func NewOpenAIReceiptExtractor(client *openai.Client, images ports.ImageStore, model string) *OpenAIReceiptExtractor {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIReceiptExtractor{
		client: client,
		images: images,
		model:  model,
	}
}

// extractionResponse is the JSON shape the model is instructed to return.
type extractionResponse struct {
	Items []struct {
		Name       string `json:"name"`
		Quantity   int    `json:"quantity"`
		PriceMinor int64  `json:"price_minor"`
	} `json:"items"`
	TotalMinor int64   `json:"total_minor"`
	Confidence float64 `json:"confidence"`
}

// Extract reads the receipt image behind imageRef and returns the structured
// result. Every failure on the way, presigning, the API call, or an
// unparseable reply, wraps ErrExtractorUnavailable: the caller cannot tell
// them apart and handles all of them by degrading.
func (e *OpenAIReceiptExtractor) Extract(ctx context.Context, imageRef string) (receipt.Extraction, error) {
	imageURL, err := e.images.PresignedURL(ctx, imageRef, presignExpiry)
	if err != nil {
		return receipt.Extraction{}, fmt.Errorf("%w: presign %s: %w", errs.ErrExtractorUnavailable, imageRef, err)
	}

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: extractionPrompt,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    imageURL,
							Detail: openai.ImageURLDetailAuto,
						},
					},
				},
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return receipt.Extraction{}, fmt.Errorf("%w: %w", errs.ErrExtractorUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return receipt.Extraction{}, fmt.Errorf("%w: empty completion", errs.ErrExtractorUnavailable)
	}

	var parsed extractionResponse
	if err = json.Unmarshal([]byte(resp.Choices[0].Message.Content), &parsed); err != nil {
		return receipt.Extraction{}, fmt.Errorf("%w: parse completion: %w", errs.ErrExtractorUnavailable, err)
	}

	return toExtraction(parsed)
}

// toExtraction maps the parsed model reply onto the domain value object.
func toExtraction(parsed extractionResponse) (receipt.Extraction, error) {
	items := make([]receipt.ExtractedItem, 0, len(parsed.Items))
	for _, line := range parsed.Items {
		price, err := kernel.MoneyFromMinor(line.PriceMinor)
		if err != nil {
			return receipt.Extraction{}, fmt.Errorf("%w: item price: %w", errs.ErrExtractorUnavailable, err)
		}
		items = append(items, receipt.ExtractedItem{
			Name:     line.Name,
			Quantity: line.Quantity,
			Price:    price,
		})
	}

	total, err := kernel.MoneyFromMinor(parsed.TotalMinor)
	if err != nil {
		return receipt.Extraction{}, fmt.Errorf("%w: total: %w", errs.ErrExtractorUnavailable, err)
	}

	extraction, err := receipt.NewExtraction(items, total, parsed.Confidence)
	if err != nil {
		return receipt.Extraction{}, fmt.Errorf("%w: %w", errs.ErrExtractorUnavailable, err)
	}

	return extraction, nil
}
