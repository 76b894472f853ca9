package auth_test

import (
	"testing"
	"time"

	"cah-online/internal/auth/adapter/security"
	"cah-online/internal/auth/domain/model"
)

func BenchmarkTokenGenerate(b *testing.B) {
	gen, err := security.NewTokenGenerator(security.MinTokenLength)
	if err != nil {
		b.Fatalf("generator: %v", err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := gen.Generate(); err != nil {
			b.Fatalf("generate: %v", err)
		}
	}
}

func BenchmarkSessionStatus(b *testing.B) {
	s, err := model.NewSession("tok", "alice", "", "", time.Now())
	if err != nil {
		b.Fatalf("session: %v", err)
	}
	now := time.Now().Add(time.Hour)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.Status(now)
	}
}
