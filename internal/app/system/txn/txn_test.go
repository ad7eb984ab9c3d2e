package txn

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func TestIsNotSupported(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"unrelated", errors.New("connection reset"), false},
		{"code 20", mongo.CommandError{Code: 20, Message: "Transaction numbers are only allowed on a replica set member or mongos"}, true},
		{"code 51", mongo.CommandError{Code: 51}, true},
		{"code 263", mongo.CommandError{Code: 263}, true},
		{"other code", mongo.CommandError{Code: 11000, Message: "E11000 duplicate key"}, false},
		{"replica set wording", errors.New("Transaction requires a Replica Set"), true},
		{"sessions not supported", errors.New("sessions are not supported by the server"), true},
		{"transaction alone", errors.New("transaction aborted"), false},
		{"wrapped command error", wrap(mongo.CommandError{Code: 20}), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotSupported(tt.err); got != tt.want {
				t.Errorf("IsNotSupported(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func wrap(err error) error {
	return errors.Join(errors.New("approve candidate"), err)
}

func TestFallback_RunsStepsOnce(t *testing.T) {
	calls := 0
	err := fallback(context.Background(), zap.NewNop(), errors.New("no replica set"), func(ctx context.Context) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("fallback returned %v", err)
	}
	if calls != 1 {
		t.Errorf("expected fn to run once, ran %d times", calls)
	}
}

func TestFallback_PropagatesStepError(t *testing.T) {
	boom := errors.New("insert failed")
	err := fallback(context.Background(), nil, errors.New("no replica set"), func(ctx context.Context) error {
		return boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("expected step error, got %v", err)
	}
}
