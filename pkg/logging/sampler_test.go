package logging

import (
	"testing"
)

func TestErrorSampler(t *testing.T) {
	sampler := NewErrorSampler(10)

	// First occurrence should be logged
	if !sampler.ShouldLog("public_articles") {
		t.Error("First occurrence should be logged")
	}

	for i := 2; i <= 9; i++ {
		if sampler.ShouldLog("public_articles") {
			t.Errorf("Occurrence %d should not be logged", i)
		}
	}

	if !sampler.ShouldLog("public_articles") {
		t.Error("10th occurrence should be logged")
	}

	if n := sampler.Streak("public_articles"); n != 10 {
		t.Errorf("Expected streak 10, got %d", n)
	}

	sampler.Recovered("public_articles")
	if n := sampler.Streak("public_articles"); n != 0 {
		t.Errorf("Expected streak 0 after recovery, got %d", n)
	}
	if !sampler.ShouldLog("public_articles") {
		t.Error("First failure after recovery should be logged")
	}
}

func TestErrorSamplerIndependentKeys(t *testing.T) {
	sampler := NewErrorSampler(5)

	sampler.ShouldLog("stats")
	sampler.ShouldLog("stats")
	sampler.ShouldLog("contact")

	if sampler.Streak("stats") != 2 {
		t.Error("stats streak should be 2")
	}
	if sampler.Streak("contact") != 1 {
		t.Error("contact streak should be 1")
	}

	sampler.Recovered("stats")
	if sampler.Streak("contact") != 1 {
		t.Error("recovering one key must not touch another")
	}
}

func TestErrorSamplerDefaultInterval(t *testing.T) {
	sampler := NewErrorSampler(0)
	logged := 0
	for i := 0; i < 20; i++ {
		if sampler.ShouldLog("k") {
			logged++
		}
	}
	// 1st, 10th, 20th
	if logged != 3 {
		t.Errorf("Expected 3 logged occurrences, got %d", logged)
	}
}
