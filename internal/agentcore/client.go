// Package agentcore invokes the remote AgentCore runtime that hosts the
// CRO scoring agent. The runtime is addressed by ARN and reached through
// the AWS SDK; its internals are entirely outside this repository.
package agentcore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentcore"
	"github.com/google/uuid"

	"github.com/soyeahso/scoredeck/internal/config"
	"github.com/soyeahso/scoredeck/internal/domain"
	"github.com/soyeahso/scoredeck/internal/logging"
)

var (
	ErrNoRuntimeARN  = errors.New("agent runtime ARN is not configured")
	ErrAgentResponse = errors.New("malformed agent response")
)

// Invoker evaluates one applicant against the current portfolio health.
type Invoker interface {
	Evaluate(ctx context.Context, a domain.Applicant, p domain.PortfolioHealth) (*domain.Evaluation, error)
}

// runtimeAPI is the slice of the AgentCore data-plane client we use.
type runtimeAPI interface {
	InvokeAgentRuntime(ctx context.Context, params *bedrockagentcore.InvokeAgentRuntimeInput, optFns ...func(*bedrockagentcore.Options)) (*bedrockagentcore.InvokeAgentRuntimeOutput, error)
}

// Client invokes the CRO agent on Bedrock AgentCore.
type Client struct {
	api       runtimeAPI
	arn       string
	qualifier string
	timeout   time.Duration
	log       *logging.Logger
}

// New builds a Client from config, resolving AWS credentials through the
// default chain (env, shared config profile, instance role).
func New(ctx context.Context, cfg config.AgentConfig, log *logging.Logger) (*Client, error) {
	if cfg.RuntimeARN == "" {
		return nil, ErrNoRuntimeARN
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.Profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return &Client{
		api:       bedrockagentcore.NewFromConfig(awsCfg),
		arn:       cfg.RuntimeARN,
		qualifier: cfg.Qualifier,
		timeout:   time.Duration(cfg.TimeoutSeconds) * time.Second,
		log:       log.Sub("agentcore"),
	}, nil
}

// NewWithAPI builds a Client around an existing runtime API, for tests.
func NewWithAPI(api runtimeAPI, arn string, timeout time.Duration, log *logging.Logger) *Client {
	return &Client{api: api, arn: arn, timeout: timeout, log: log.Sub("agentcore")}
}

// Evaluate sends the applicant and portfolio to the agent runtime and
// decodes its verdict. The response body is a stream of JSON chunks that
// concatenate into a single document.
func (c *Client) Evaluate(ctx context.Context, a domain.Applicant, p domain.PortfolioHealth) (*domain.Evaluation, error) {
	payload, err := EncodePayload(a, p)
	if err != nil {
		return nil, err
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()

	out, err := c.api.InvokeAgentRuntime(ctx, &bedrockagentcore.InvokeAgentRuntimeInput{
		AgentRuntimeArn:  aws.String(c.arn),
		RuntimeSessionId: aws.String(newRuntimeSessionID()),
		Qualifier:        optionalString(c.qualifier),
		ContentType:      aws.String("application/json"),
		Accept:           aws.String("application/json"),
		Payload:          payload,
	})
	if err != nil {
		return nil, fmt.Errorf("invoking agent runtime: %w", err)
	}

	body, err := io.ReadAll(out.Response)
	out.Response.Close()
	if err != nil {
		return nil, fmt.Errorf("reading agent response: %w", err)
	}

	eval, err := decodeEvaluation(body, a)
	if err != nil {
		return nil, err
	}

	eval.ID = uuid.New().String()
	eval.Latency = time.Since(start)
	eval.LatencyMS = eval.Latency.Milliseconds()

	c.log.Debug().
		Str("id", eval.ID).
		Float64("mlScore", eval.MLScore).
		Str("verdict", eval.Decision.Verdict).
		Dur("latency", eval.Latency).
		Msg("applicant evaluated")

	return eval, nil
}

// newRuntimeSessionID generates a per-invocation session id. AgentCore
// requires at least 33 characters; a UUID is 36.
func newRuntimeSessionID() string {
	return uuid.New().String()
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return aws.String(s)
}
