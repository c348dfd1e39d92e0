package push

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/smithy-go"
)

type snsAPI interface {
	Publish(ctx context.Context, in *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSClient publishes to SNS mobile platform endpoints. The device token is
// the endpoint ARN.
type SNSClient struct {
	api snsAPI
}

// NewSNSClient loads AWS configuration for cfg.AWSRegion. Static credentials
// are used when both keys are set; otherwise the default chain applies.
// AWSEndpoint overrides the service URL.
func NewSNSClient(ctx context.Context, cfg Config) (*SNSClient, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.AWSRegion),
	}
	if cfg.AWSAccessKeyID != "" && cfg.AWSSecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}

	client := sns.NewFromConfig(awsCfg, func(o *sns.Options) {
		if cfg.AWSEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.AWSEndpoint)
		}
	})
	return &SNSClient{api: client}, nil
}

type apnsAlert struct {
	Title string `json:"title,omitempty"`
	Body  string `json:"body,omitempty"`
}

type apnsPayload struct {
	APS struct {
		Alert apnsAlert `json:"alert"`
		Sound string    `json:"sound"`
	} `json:"aps"`
	Data map[string]any `json:"data,omitempty"`
}

type fcmPayload struct {
	Notification struct {
		Title     string `json:"title,omitempty"`
		Body      string `json:"body,omitempty"`
		ChannelID string `json:"android_channel_id,omitempty"`
	} `json:"notification"`
	Data     map[string]any `json:"data,omitempty"`
	Priority string         `json:"priority"`
}

func snsMessage(msg Message) (string, error) {
	var apns apnsPayload
	apns.APS.Alert = apnsAlert{Title: msg.Title, Body: msg.Body}
	apns.APS.Sound = "default"
	apns.Data = msg.Data

	var fcm fcmPayload
	fcm.Notification.Title = msg.Title
	fcm.Notification.Body = msg.Body
	fcm.Notification.ChannelID = msg.ChannelID
	fcm.Data = msg.Data
	fcm.Priority = "normal"
	if msg.Priority == PriorityHigh {
		fcm.Priority = "high"
	}

	apnsJSON, err := json.Marshal(apns)
	if err != nil {
		return "", err
	}
	fcmJSON, err := json.Marshal(fcm)
	if err != nil {
		return "", err
	}

	fallback := msg.Body
	if fallback == "" {
		fallback = msg.Title
	}
	out, err := json.Marshal(map[string]string{
		"default":      fallback,
		"APNS":         string(apnsJSON),
		"APNS_SANDBOX": string(apnsJSON),
		"GCM":          string(fcmJSON),
	})
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (c *SNSClient) Send(ctx context.Context, msg Message) (string, error) {
	if err := msg.validate(); err != nil {
		return "", err
	}

	body, err := snsMessage(msg)
	if err != nil {
		return "", errors.Join(ErrDeliveryFailed, err)
	}

	out, err := c.api.Publish(ctx, &sns.PublishInput{
		TargetArn:        aws.String(msg.To),
		Message:          aws.String(body),
		MessageStructure: aws.String("json"),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			switch apiErr.ErrorCode() {
			case "EndpointDisabled", "InvalidParameter", "NotFound":
				return "", fmt.Errorf("%w: %s", ErrTokenInvalid, apiErr.ErrorMessage())
			}
		}
		return "", errors.Join(ErrDeliveryFailed, err)
	}
	return aws.ToString(out.MessageId), nil
}
