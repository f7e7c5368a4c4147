package metrics

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"github.com/dmhcommunity/beanbot/internal/models"
)

// CloudWatchAPI defines the CloudWatch client interface used for metrics.
type CloudWatchAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// Emitter sends sync metrics to CloudWatch.
type Emitter struct {
	client    CloudWatchAPI
	namespace string
}

// NewEmitter creates a CloudWatch metrics emitter.
func NewEmitter(cfg aws.Config, namespace string) *Emitter {
	return &Emitter{
		client:    cloudwatch.NewFromConfig(cfg),
		namespace: namespace,
	}
}

// EmitSync publishes the outcome of one sync run.
func (e *Emitter) EmitSync(ctx context.Context, result *models.SyncResult, failed bool) error {
	failures := 0
	if failed {
		failures = 1
	}
	metrics := []types.MetricDatum{
		metricDatum("MembersSynced", result.MembersSynced, types.StandardUnitCount),
		metricDatum("RoleColumns", result.RoleColumns, types.StandardUnitCount),
		metricDatum("DurationMs", int(result.DurationMs), types.StandardUnitMilliseconds),
		metricDatum("SyncFailures", failures, types.StandardUnitCount),
	}

	_, err := e.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(e.namespace),
		MetricData: metrics,
	})
	return err
}

func metricDatum(name string, value int, unit types.StandardUnit) types.MetricDatum {
	return types.MetricDatum{
		MetricName: aws.String(name),
		Unit:       unit,
		Value:      aws.Float64(float64(value)),
	}
}
