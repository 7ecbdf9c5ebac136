package inference

import (
	"context"
	"image"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
)

// DefaultBedrockModel is the Bedrock model used when none is configured.
const DefaultBedrockModel = "amazon.nova-lite-v1:0"

// ConverseAPI is the subset of the Bedrock runtime client used here.
type ConverseAPI interface {
	Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

// BedrockClient analyzes images with the Bedrock Converse API.
type BedrockClient struct {
	api       ConverseAPI
	model     string
	maxTokens int32
}

// BedrockOption configures a BedrockClient.
type BedrockOption func(*BedrockClient)

// WithMaxTokens caps the generated output. Zero keeps the model default.
func WithMaxTokens(n int) BedrockOption {
	return func(c *BedrockClient) {
		if n > 0 {
			c.maxTokens = int32(n) // #nosec G115 -- bounded by config validation
		}
	}
}

// NewBedrockClient wraps an existing Converse API client.
func NewBedrockClient(api ConverseAPI, model string, opts ...BedrockOption) *BedrockClient {
	if model == "" {
		model = DefaultBedrockModel
	}
	c := &BedrockClient{api: api, model: model}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BedrockSettings holds the connection settings for NewBedrockFromEnv.
type BedrockSettings struct {
	Region    string        // empty: AWS default resolution chain
	Model     string        // empty: DefaultBedrockModel
	Timeout   time.Duration // zero: SDK transport default
	MaxTokens int
}

// NewBedrockFromEnv builds a client from the standard AWS configuration
// chain (environment, shared config files, instance roles). Credentials are
// resolved lazily, so missing credentials surface as a transport failure on
// the first call.
func NewBedrockFromEnv(ctx context.Context, s BedrockSettings) (*BedrockClient, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if s.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(s.Region))
	}
	if s.Timeout > 0 {
		loadOpts = append(loadOpts, awsconfig.WithHTTPClient(
			awshttp.NewBuildableClient().WithTimeout(s.Timeout),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, transportFailure(s.Model, err).Err
	}

	return NewBedrockClient(bedrockruntime.NewFromConfig(cfg), s.Model, WithMaxTokens(s.MaxTokens)), nil
}

// Model returns the configured model identifier.
func (c *BedrockClient) Model() string { return c.model }

// Analyze sends one user message holding the PNG image followed by the
// instruction text, and extracts output.message.content[0].text.
func (c *BedrockClient) Analyze(ctx context.Context, img image.Image, instruction string) Result {
	data, err := EncodePNG(img)
	if err != nil {
		return failure(c.model, err)
	}

	input := &bedrockruntime.ConverseInput{
		ModelId: aws.String(c.model),
		Messages: []types.Message{
			{
				Role: types.ConversationRoleUser,
				Content: []types.ContentBlock{
					&types.ContentBlockMemberImage{
						Value: types.ImageBlock{
							Format: types.ImageFormatPng,
							Source: &types.ImageSourceMemberBytes{Value: data},
						},
					},
					&types.ContentBlockMemberText{Value: instruction},
				},
			},
		},
	}
	if c.maxTokens > 0 {
		input.InferenceConfig = &types.InferenceConfiguration{MaxTokens: aws.Int32(c.maxTokens)}
	}

	out, err := c.api.Converse(ctx, input)
	if err != nil {
		return transportFailure(c.model, err)
	}

	res := c.extract(out)
	res.Model = c.model
	return res
}

// extract pulls the generated text out of the Converse envelope.
func (c *BedrockClient) extract(out *bedrockruntime.ConverseOutput) Result {
	if out == nil || out.Output == nil {
		return shapeFailure(c.model, "output")
	}

	msg, ok := out.Output.(*types.ConverseOutputMemberMessage)
	if !ok {
		return shapeFailure(c.model, "output.message")
	}
	if len(msg.Value.Content) == 0 {
		return shapeFailure(c.model, "output.message.content")
	}

	block, ok := msg.Value.Content[0].(*types.ContentBlockMemberText)
	if !ok {
		return shapeFailure(c.model, "output.message.content[0].text")
	}
	if strings.TrimSpace(block.Value) == "" {
		return shapeFailure(c.model, "output.message.content[0].text (empty)")
	}

	res := Result{Text: block.Value, StopReason: string(out.StopReason)}
	if u := out.Usage; u != nil {
		res.Usage = Usage{
			InputTokens:  int(aws.ToInt32(u.InputTokens)),
			OutputTokens: int(aws.ToInt32(u.OutputTokens)),
			TotalTokens:  int(aws.ToInt32(u.TotalTokens)),
		}
	}
	return res
}

// Compile-time interface checks.
var (
	_ Analyzer    = (*BedrockClient)(nil)
	_ ConverseAPI = (*bedrockruntime.Client)(nil)
)
