package bedrock

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagent"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/document"
	runtimetypes "github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/types"
)

// Config identifies the managed knowledge base, its data source and the
// generation model
type Config struct {
	KnowledgeBaseID string
	DataSourceID    string
	ModelARN        string
}

// Client wraps the Bedrock Agent and Agent Runtime APIs for one managed
// knowledge base. All heterogeneous provider response shapes are normalized
// here; optional fields are checked and defaulted, never accessed blindly.
type Client struct {
	agent   *bedrockagent.Client
	runtime *bedrockagentruntime.Client
	cfg     Config
}

// NewClient creates a new Bedrock client
func NewClient(agent *bedrockagent.Client, runtime *bedrockagentruntime.Client, cfg Config) *Client {
	return &Client{
		agent:   agent,
		runtime: runtime,
		cfg:     cfg,
	}
}

// GenerateOutput is the normalized result of a retrieval-and-generation call
type GenerateOutput struct {
	Answer    string
	SessionID string
	Citations []Citation
}

// Citation groups the passages backing one part of the generated answer
type Citation struct {
	References []Reference
}

// Reference is one retrieved passage inside a citation. The runtime API does
// not attribute a relevance score to citation references, so Score stays 0.
type Reference struct {
	Content  string
	Location string
	Score    float64
}

// RetrieveOutput is the normalized result of a retrieval-only call
type RetrieveOutput struct {
	Results []Passage
}

// Passage is one ranked retrieval result
type Passage struct {
	Content  string
	Location string
	Score    float64
	Metadata map[string]any
}

// StartIngestionJob triggers a sync of the knowledge base's data source and
// returns the ingestion job id
func (c *Client) StartIngestionJob(ctx context.Context, description string) (string, error) {
	out, err := c.agent.StartIngestionJob(ctx, &bedrockagent.StartIngestionJobInput{
		KnowledgeBaseId: aws.String(c.cfg.KnowledgeBaseID),
		DataSourceId:    aws.String(c.cfg.DataSourceID),
		Description:     aws.String(description),
	})
	if err != nil {
		return "", fmt.Errorf("failed to start ingestion job: %w", err)
	}

	if out.IngestionJob == nil {
		return "", nil
	}
	return aws.ToString(out.IngestionJob.IngestionJobId), nil
}

// RetrieveAndGenerate issues a retrieval-and-generation request against the
// managed knowledge base, requesting up to maxResults supporting passages
func (c *Client) RetrieveAndGenerate(ctx context.Context, text string, maxResults int) (*GenerateOutput, error) {
	out, err := c.runtime.RetrieveAndGenerate(ctx, &bedrockagentruntime.RetrieveAndGenerateInput{
		Input: &runtimetypes.RetrieveAndGenerateInput{
			Text: aws.String(text),
		},
		RetrieveAndGenerateConfiguration: &runtimetypes.RetrieveAndGenerateConfiguration{
			Type: runtimetypes.RetrieveAndGenerateTypeKnowledgeBase,
			KnowledgeBaseConfiguration: &runtimetypes.KnowledgeBaseRetrieveAndGenerateConfiguration{
				KnowledgeBaseId:        aws.String(c.cfg.KnowledgeBaseID),
				ModelArn:               aws.String(c.cfg.ModelARN),
				RetrievalConfiguration: retrievalConfiguration(maxResults),
			},
		},
	})
	if err != nil {
		return nil, err
	}

	result := &GenerateOutput{
		SessionID: aws.ToString(out.SessionId),
		Citations: make([]Citation, 0, len(out.Citations)),
	}
	if out.Output != nil {
		result.Answer = aws.ToString(out.Output.Text)
	}

	for _, citation := range out.Citations {
		group := Citation{References: make([]Reference, 0, len(citation.RetrievedReferences))}
		for _, ref := range citation.RetrievedReferences {
			group.References = append(group.References, Reference{
				Content:  referenceContent(ref.Content),
				Location: referenceLocation(ref.Location),
			})
		}
		result.Citations = append(result.Citations, group)
	}

	return result, nil
}

// Retrieve issues a retrieval-only request against the managed knowledge base
func (c *Client) Retrieve(ctx context.Context, query string, maxResults int) (*RetrieveOutput, error) {
	out, err := c.runtime.Retrieve(ctx, &bedrockagentruntime.RetrieveInput{
		KnowledgeBaseId: aws.String(c.cfg.KnowledgeBaseID),
		RetrievalQuery: &runtimetypes.KnowledgeBaseQuery{
			Text: aws.String(query),
		},
		RetrievalConfiguration: retrievalConfiguration(maxResults),
	})
	if err != nil {
		return nil, err
	}

	result := &RetrieveOutput{Results: make([]Passage, 0, len(out.RetrievalResults))}
	for _, r := range out.RetrievalResults {
		result.Results = append(result.Results, Passage{
			Content:  referenceContent(r.Content),
			Location: referenceLocation(r.Location),
			Score:    aws.ToFloat64(r.Score),
			Metadata: decodeMetadata(r.Metadata),
		})
	}

	return result, nil
}

func retrievalConfiguration(maxResults int) *runtimetypes.KnowledgeBaseRetrievalConfiguration {
	return &runtimetypes.KnowledgeBaseRetrievalConfiguration{
		VectorSearchConfiguration: &runtimetypes.KnowledgeBaseVectorSearchConfiguration{
			NumberOfResults: aws.Int32(int32(maxResults)),
		},
	}
}

func referenceContent(content *runtimetypes.RetrievalResultContent) string {
	if content == nil {
		return ""
	}
	return aws.ToString(content.Text)
}

func referenceLocation(location *runtimetypes.RetrievalResultLocation) string {
	if location == nil || location.S3Location == nil {
		return ""
	}
	return aws.ToString(location.S3Location.Uri)
}

func decodeMetadata(md map[string]document.Interface) map[string]any {
	if len(md) == 0 {
		return nil
	}
	out := make(map[string]any, len(md))
	for k, v := range md {
		var value any
		if err := v.UnmarshalSmithyDocument(&value); err != nil {
			continue
		}
		out[k] = value
	}
	return out
}
