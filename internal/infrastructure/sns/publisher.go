package sns

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/adgate/internal/config"
	"github.com/adgate/internal/pkg/id"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// Publisher fans monetization events (session consumed, code redeemed,
// impression shown) out to an SNS topic for downstream analytics.
// Publishing is best effort: failure is logged and discarded, never
// surfaced to the business flow that emitted the event.
type Publisher interface {
	Publish(ctx context.Context, event string, attrs map[string]string)
}

type publisher struct {
	client   *sns.Client
	topicARN string
}

func NewPublisher(cfg *config.Config) (Publisher, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.AWSRegion),
	}
	if cfg.AWSAccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, err
	}

	clientOpts := []func(*sns.Options){}
	if cfg.AWSEndpointURL != "" {
		clientOpts = append(clientOpts, func(o *sns.Options) {
			o.BaseEndpoint = aws.String(cfg.AWSEndpointURL)
		})
	}

	return &publisher{
		client:   sns.NewFromConfig(awsCfg, clientOpts...),
		topicARN: cfg.EventsTopicARN,
	}, nil
}

type eventEnvelope struct {
	EventID   string            `json:"event_id"`
	Event     string            `json:"event"`
	Timestamp time.Time         `json:"timestamp"`
	Attrs     map[string]string `json:"attrs,omitempty"`
}

func (p *publisher) Publish(ctx context.Context, event string, attrs map[string]string) {
	body, err := json.Marshal(eventEnvelope{
		EventID:   id.New(),
		Event:     event,
		Timestamp: time.Now().UTC(),
		Attrs:     attrs,
	})
	if err != nil {
		slog.Warn("event marshal failed", "event", event, "err", err)
		return
	}
	_, err = p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Message:  aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"event": {DataType: aws.String("String"), StringValue: aws.String(event)},
		},
	})
	if err != nil {
		slog.Warn("event publish failed", "event", event, "err", err)
	}
}
