package agentcore

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentcore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soyeahso/scoredeck/internal/config"
	"github.com/soyeahso/scoredeck/internal/domain"
	"github.com/soyeahso/scoredeck/internal/logging"
)

func testConfigNoARN() config.AgentConfig {
	return config.AgentConfig{Region: "us-east-1"}
}

type fakeRuntime struct {
	gotInput *bedrockagentcore.InvokeAgentRuntimeInput
	body     string
	err      error
}

func (f *fakeRuntime) InvokeAgentRuntime(ctx context.Context, params *bedrockagentcore.InvokeAgentRuntimeInput, optFns ...func(*bedrockagentcore.Options)) (*bedrockagentcore.InvokeAgentRuntimeOutput, error) {
	f.gotInput = params
	if f.err != nil {
		return nil, f.err
	}
	return &bedrockagentcore.InvokeAgentRuntimeOutput{
		ContentType: aws.String("application/json"),
		Response:    io.NopCloser(strings.NewReader(f.body)),
	}, nil
}

func testApplicant() domain.Applicant {
	return domain.Applicant{Age: 35, AnnualIncome: 50000, EmploymentYears: 3, DebtToIncome: 0.3}
}

func testPortfolio() domain.PortfolioHealth {
	return domain.PortfolioHealth{AvailableCapital: 1_000_000, DelinquencyRate: 0.035, MonthlyDisbursementTarget: 500_000}
}

func TestEvaluate(t *testing.T) {
	rt := &fakeRuntime{
		body: `{"score_ml": 0.812, "decision": {"decision": "APROBADO", "score_final": 0.79, "justificacion": "solid income", "recomendaciones": "offer standard rate"}}`,
	}
	c := NewWithAPI(rt, "arn:aws:bedrock-agentcore:us-east-1:123456789012:runtime/cro", time.Minute, logging.New(io.Discard, "silent"))

	eval, err := c.Evaluate(context.Background(), testApplicant(), testPortfolio())
	require.NoError(t, err)

	assert.NotEmpty(t, eval.ID)
	assert.Equal(t, 0.812, eval.MLScore)
	assert.True(t, eval.Decision.Approved())
	assert.Equal(t, "0.79", eval.Decision.FinalScore)
	assert.Equal(t, "solid income", eval.Decision.Rationale)
	assert.Equal(t, "offer standard rate", eval.Decision.Recommendations)
	assert.False(t, eval.CreatedAt.IsZero())
}

func TestEvaluateWirePayload(t *testing.T) {
	rt := &fakeRuntime{body: `{"score_ml": 0.1, "decision": {"decision": "RECHAZADO"}}`}
	c := NewWithAPI(rt, "arn:aws:bedrock-agentcore:us-east-1:123456789012:runtime/cro", 0, logging.New(io.Discard, "silent"))

	_, err := c.Evaluate(context.Background(), testApplicant(), testPortfolio())
	require.NoError(t, err)

	require.NotNil(t, rt.gotInput)
	assert.Equal(t, "arn:aws:bedrock-agentcore:us-east-1:123456789012:runtime/cro", aws.ToString(rt.gotInput.AgentRuntimeArn))
	assert.GreaterOrEqual(t, len(aws.ToString(rt.gotInput.RuntimeSessionId)), 33)
	assert.Nil(t, rt.gotInput.Qualifier)

	// The wire contract keeps the runtime's Spanish field names.
	var payload map[string]map[string]float64
	require.NoError(t, json.Unmarshal(rt.gotInput.Payload, &payload))
	require.Contains(t, payload, "cliente")
	require.Contains(t, payload, "salud_cartera")
	assert.Equal(t, 35.0, payload["cliente"]["edad"])
	assert.Equal(t, 50000.0, payload["cliente"]["ingresos"])
	assert.Equal(t, 3.0, payload["cliente"]["estabilidad_laboral"])
	assert.Equal(t, 0.3, payload["cliente"]["ratio_deuda_ingreso"])
	assert.Equal(t, 1_000_000.0, payload["salud_cartera"]["capital_disponible"])
	assert.Equal(t, 0.035, payload["salud_cartera"]["tasa_mora_actual"])
	assert.Equal(t, 500_000.0, payload["salud_cartera"]["objetivo_mensual_desembolso"])
}

func TestEvaluateTransportError(t *testing.T) {
	rt := &fakeRuntime{err: errors.New("throttled")}
	c := NewWithAPI(rt, "arn:aws:bedrock-agentcore:us-east-1:123456789012:runtime/cro", 0, logging.New(io.Discard, "silent"))

	_, err := c.Evaluate(context.Background(), testApplicant(), testPortfolio())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invoking agent runtime")
}

func TestEvaluateMalformedBody(t *testing.T) {
	rt := &fakeRuntime{body: "not json at all"}
	c := NewWithAPI(rt, "arn:aws:bedrock-agentcore:us-east-1:123456789012:runtime/cro", 0, logging.New(io.Discard, "silent"))

	_, err := c.Evaluate(context.Background(), testApplicant(), testPortfolio())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAgentResponse)
}

func TestNewRequiresARN(t *testing.T) {
	_, err := New(context.Background(), testConfigNoARN(), logging.New(io.Discard, "silent"))
	assert.ErrorIs(t, err, ErrNoRuntimeARN)
}

func TestStringFinalScore(t *testing.T) {
	rt := &fakeRuntime{
		body: `{"score_ml": 0.4, "decision": {"decision": "REVISION", "score_final": "N/A", "justificacion": "borderline"}}`,
	}
	c := NewWithAPI(rt, "arn:aws:bedrock-agentcore:us-east-1:123456789012:runtime/cro", 0, logging.New(io.Discard, "silent"))

	eval, err := c.Evaluate(context.Background(), testApplicant(), testPortfolio())
	require.NoError(t, err)
	assert.Equal(t, "N/A", eval.Decision.FinalScore)
	assert.False(t, eval.Decision.Approved())
}

func TestMockDefaults(t *testing.T) {
	m := &Mock{}
	eval, err := m.Evaluate(context.Background(), testApplicant(), testPortfolio())
	require.NoError(t, err)
	assert.True(t, eval.Decision.Approved())
	assert.NotEmpty(t, eval.ID)
}
