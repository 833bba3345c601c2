package predictor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/azure"
	"github.com/openai/openai-go/option"

	"github.com/sozercan/carprice/internal/config"
	"github.com/sozercan/carprice/internal/features"
)

const appraiserPrompt = `You are a used car appraiser for the Indian market.
Given a car's details, reply with a single number: its fair resale price in lakhs of rupees.
Do not add units, ranges or any other text.`

var numberPattern = regexp.MustCompile(`[-+]?\d+(?:\.\d+)?`)

const reportPriceTool = "report_price"

// priceTools lets the model answer with a structured price instead of prose.
var priceTools = []openai.ChatCompletionToolParam{
	{
		Type: openai.F(openai.ChatCompletionToolTypeFunction),
		Function: openai.F(openai.FunctionDefinitionParam{
			Name:        openai.String(reportPriceTool),
			Description: openai.String("Report the fair resale price of the car"),
			Parameters: openai.F(openai.FunctionParameters{
				"type": "object",
				"properties": map[string]interface{}{
					"price": map[string]string{
						"type":        "number",
						"description": "Fair resale price in lakhs of rupees",
					},
				},
				"required": []string{"price"},
			}),
		}),
	},
}

// OpenAI asks a chat completion model to appraise the car. Categorical codes
// are decoded back to labels before prompting.
type OpenAI struct {
	client   *openai.Client
	cfg      *config.OpenAIConfig
	encoders *features.Encoders
}

func NewOpenAI(cfg *config.OpenAIConfig, encoders *features.Encoders) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key cannot be empty")
	}

	var client *openai.Client

	switch cfg.Provider {
	case "azure":
		client = openai.NewClient(
			azure.WithEndpoint(cfg.APIEndpoint, cfg.APIVersion),
			azure.WithAPIKey(cfg.APIKey),
		)
	default: // "openai"
		client = openai.NewClient(
			option.WithAPIKey(cfg.APIKey),
			option.WithBaseURL(cfg.APIEndpoint),
		)
	}

	return &OpenAI{
		client:   client,
		cfg:      cfg,
		encoders: encoders,
	}, nil
}

func (o *OpenAI) Name() string { return BackendOpenAI }

func (o *OpenAI) Predict(ctx context.Context, v features.Vector) (float64, error) {
	description, err := o.describe(v)
	if err != nil {
		return 0, err
	}

	model := o.cfg.Model
	if o.cfg.Provider == "azure" {
		model = o.cfg.DeploymentName
	}

	resp, err := o.client.Chat.Completions.New(
		ctx,
		openai.ChatCompletionNewParams{
			Model: openai.F(model),
			Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
				openai.SystemMessage(appraiserPrompt),
				openai.UserMessage(description),
			}),
			Tools:       openai.F(priceTools),
			Temperature: openai.F(0.0),
			MaxTokens:   openai.F(int64(64)),
		},
	)
	if err != nil {
		slog.Error("OpenAI appraisal failed", "error", err)
		return 0, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return 0, fmt.Errorf("%w: OpenAI returned no choices", ErrBadPrediction)
	}

	slog.Debug("OpenAI appraisal completed", "tokens", resp.Usage.TotalTokens)

	price, err := priceFromMessage(resp.Choices[0].Message)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBadPrediction, err)
	}
	return price, nil
}

// priceFromMessage prefers a report_price tool call over the reply text.
func priceFromMessage(msg openai.ChatCompletionMessage) (float64, error) {
	for _, call := range msg.ToolCalls {
		if call.Function.Name == reportPriceTool {
			return parseToolPrice(call.Function.Arguments)
		}
	}
	return parsePrice(msg.Content)
}

func (o *OpenAI) describe(v features.Vector) (string, error) {
	labels := make(map[string]string, len(features.CategoricalColumns))
	for col, idx := range map[string]int{
		features.ColManufacturer: features.IdxManufacturer,
		features.ColLocation:     features.IdxLocation,
		features.ColFuelType:     features.IdxFuelType,
		features.ColTransmission: features.IdxTransmission,
		features.ColOwnerType:    features.IdxOwnerType,
	} {
		label, err := o.encoders.Inverse(col, int(v[idx]))
		if err != nil {
			return "", fmt.Errorf("decode %s: %w", col, err)
		}
		labels[col] = label
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Manufacturer: %s\n", labels[features.ColManufacturer])
	fmt.Fprintf(&b, "Year: %.0f (age %.0f years)\n", v[features.IdxYear], v[features.IdxAge])
	fmt.Fprintf(&b, "Location: %s\n", labels[features.ColLocation])
	fmt.Fprintf(&b, "Kilometers driven: %.0f\n", v[features.IdxKilometersDriven])
	fmt.Fprintf(&b, "Fuel type: %s\n", labels[features.ColFuelType])
	fmt.Fprintf(&b, "Transmission: %s\n", labels[features.ColTransmission])
	fmt.Fprintf(&b, "Owner type: %s\n", labels[features.ColOwnerType])
	fmt.Fprintf(&b, "Engine: %.0f CC\n", v[features.IdxEngineCC])
	fmt.Fprintf(&b, "Power: %g bhp\n", v[features.IdxPower])
	fmt.Fprintf(&b, "Seats: %.0f\n", v[features.IdxSeats])
	fmt.Fprintf(&b, "Mileage: %g km/l\n", v[features.IdxMileage])
	return b.String(), nil
}

func parseToolPrice(arguments string) (float64, error) {
	var args struct {
		Price *float64 `json:"price"`
	}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return 0, fmt.Errorf("decode %s arguments: %w", reportPriceTool, err)
	}
	if args.Price == nil {
		return 0, fmt.Errorf("%s called without a price", reportPriceTool)
	}
	return *args.Price, nil
}

// parsePrice pulls the first number out of a model reply.
func parsePrice(content string) (float64, error) {
	match := numberPattern.FindString(strings.ReplaceAll(content, ",", ""))
	if match == "" {
		return 0, fmt.Errorf("no price in model reply %q", content)
	}
	return strconv.ParseFloat(match, 64)
}
