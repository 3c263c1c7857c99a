package awsx

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/juanpablosotoc/zartex/internal/types"
)

// SQS publishes notification messages to a single queue.
type SQS struct {
	client   *sqs.Client
	queueURL string
}

func NewSQS(cfg aws.Config, queueURL string) *SQS {
	return &SQS{client: sqs.NewFromConfig(cfg), queueURL: queueURL}
}

// Send marshals payload as JSON and posts it to the queue.
func (q *SQS) Send(ctx context.Context, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return types.QueueError("error encoding queue message", err)
	}
	_, err = q.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(q.queueURL),
		MessageBody: aws.String(string(body)),
	})
	if err != nil {
		return types.QueueError(
			fmt.Sprintf("error posting message to queue %s", q.queueURL), err)
	}
	return nil
}
