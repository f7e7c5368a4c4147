package metrics

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"github.com/dmhcommunity/beanbot/internal/models"
)

type mockCloudWatch struct {
	input *cloudwatch.PutMetricDataInput
	err   error
}

func (m *mockCloudWatch) PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.input = params
	return &cloudwatch.PutMetricDataOutput{}, nil
}

func metricValue(data []types.MetricDatum, name string) (float64, bool) {
	for _, d := range data {
		if d.MetricName != nil && *d.MetricName == name && d.Value != nil {
			return *d.Value, true
		}
	}
	return 0, false
}

func TestEmitSync(t *testing.T) {
	mock := &mockCloudWatch{}
	emitter := &Emitter{client: mock, namespace: "BeanBot/Sync"}

	result := &models.SyncResult{
		MembersSynced: 42,
		RoleColumns:   7,
		DurationMs:    1530,
	}
	if err := emitter.EmitSync(context.Background(), result, false); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if mock.input.Namespace == nil || *mock.input.Namespace != "BeanBot/Sync" {
		t.Fatalf("unexpected namespace: %v", mock.input.Namespace)
	}
	if len(mock.input.MetricData) != 4 {
		t.Fatalf("expected 4 metrics, got %d", len(mock.input.MetricData))
	}

	expected := map[string]float64{
		"MembersSynced": 42,
		"RoleColumns":   7,
		"DurationMs":    1530,
		"SyncFailures":  0,
	}
	for name, want := range expected {
		got, ok := metricValue(mock.input.MetricData, name)
		if !ok {
			t.Fatalf("metric %q missing", name)
		}
		if got != want {
			t.Errorf("metric %q: expected %v, got %v", name, want, got)
		}
	}

	for _, d := range mock.input.MetricData {
		if *d.MetricName == "DurationMs" && d.Unit != types.StandardUnitMilliseconds {
			t.Errorf("DurationMs should use milliseconds unit, got %v", d.Unit)
		}
	}
}

func TestEmitSyncFailureFlag(t *testing.T) {
	mock := &mockCloudWatch{}
	emitter := &Emitter{client: mock, namespace: "BeanBot/Sync"}

	if err := emitter.EmitSync(context.Background(), &models.SyncResult{}, true); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	got, ok := metricValue(mock.input.MetricData, "SyncFailures")
	if !ok || got != 1 {
		t.Fatalf("expected SyncFailures=1, got %v (present=%v)", got, ok)
	}
}

func TestEmitSyncPropagatesError(t *testing.T) {
	mock := &mockCloudWatch{err: errors.New("throttled")}
	emitter := &Emitter{client: mock, namespace: "BeanBot/Sync"}

	if err := emitter.EmitSync(context.Background(), &models.SyncResult{}, false); err == nil {
		t.Fatal("expected error")
	}
}
