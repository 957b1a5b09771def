// internal/common/aws/sns.go
package aws

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"product-ranking/internal/common/logger"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

const TrendingSnapshotEvent = "ranking.trending.snapshot"

type snsAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type SNSClient struct {
	client snsAPI
}

func NewSNSClient(ctx context.Context, region string) (*SNSClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	return &SNSClient{client: sns.NewFromConfig(cfg)}, nil
}

func (s *SNSClient) Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error) {
	return s.client.Publish(ctx, input)
}

// TrendingEntry is one line of a published trending snapshot.
type TrendingEntry struct {
	ProductID     string  `json:"productId"`
	TrendingScore float64 `json:"trendingScore"`
}

type TrendingSnapshot struct {
	RankingID    string          `json:"rankingId"`
	CategorySlug string          `json:"categorySlug,omitempty"`
	GeneratedAt  time.Time       `json:"generatedAt"`
	Products     []TrendingEntry `json:"products"`
}

// TrendingPublisher fans trending snapshots out to downstream consumers
// (merchandising pages, caches) through an SNS topic.
type TrendingPublisher struct {
	client   *SNSClient
	topicARN string
	logger   logger.Logger
}

func NewTrendingPublisher(client *SNSClient, topicARN string, log logger.Logger) *TrendingPublisher {
	return &TrendingPublisher{
		client:   client,
		topicARN: topicARN,
		logger:   log.WithFields(map[string]interface{}{"component": "trending-publisher", "topic": topicARN}),
	}
}

// PublishTrending sends snapshot and returns the SNS message id.
func (p *TrendingPublisher) PublishTrending(ctx context.Context, snapshot TrendingSnapshot) (string, error) {
	body, err := json.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("failed to encode trending snapshot: %w", err)
	}

	out, err := p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: awssdk.String(p.topicARN),
		Message:  awssdk.String(string(body)),
		Subject:  awssdk.String("Trending products updated"),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"eventType": {
				DataType:    awssdk.String("String"),
				StringValue: awssdk.String(TrendingSnapshotEvent),
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to publish trending snapshot: %w", err)
	}

	messageID := awssdk.ToString(out.MessageId)
	p.logger.Info("trending snapshot published", map[string]interface{}{
		"rankingId": snapshot.RankingID,
		"messageId": messageID,
		"products":  len(snapshot.Products),
	})
	return messageID, nil
}
