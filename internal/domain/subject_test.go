package domain

import "testing"

func TestMeasurement_Ordered(t *testing.T) {
	tests := []struct {
		name string
		in   Measurement
		want Measurement
	}{
		{"already ordered", Measurement{Rest: 70, Stress: 80}, Measurement{Rest: 70, Stress: 80}},
		{"swapped", Measurement{Rest: 90, Stress: 75}, Measurement{Rest: 75, Stress: 90}},
		{"equal", Measurement{Rest: 60, Stress: 60}, Measurement{Rest: 60, Stress: 60}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Ordered(); got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestSubjectRecord_SetMeasurement(t *testing.T) {
	var r SubjectRecord
	for i, m := range Metrics {
		r.SetMeasurement(m, Measurement{Rest: float64(i), Stress: float64(i + 10)})
	}
	if r.HeartRate != (Measurement{Rest: 1, Stress: 11}) {
		t.Errorf("unexpected heart rate %+v", r.HeartRate)
	}
	if got := r.Measurement(SystolicBP).Value(Stress); got != 12 {
		t.Errorf("expected systolic stress 12, got %v", got)
	}
}

func TestMetric_Column(t *testing.T) {
	tests := []struct {
		metric Metric
		phase  Phase
		want   string
	}{
		{EF, Rest, "Rest EF"},
		{HeartRate, Stress, "Stress Heart Rate"},
		{SystolicBP, Rest, "Rest Systolic BP"},
	}
	for _, tt := range tests {
		if got := tt.metric.Column(tt.phase); got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, got)
		}
	}
}

func TestParseMetric(t *testing.T) {
	m, err := ParseMetric("Heart_Rate")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m != HeartRate {
		t.Errorf("expected HeartRate, got %s", m)
	}
	if _, err := ParseMetric("bmi"); err == nil {
		t.Error("expected error for unknown metric")
	}
}

func TestParseDatasetKind(t *testing.T) {
	if _, err := ParseDatasetKind("cohort"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := ParseDatasetKind("controls"); err == nil {
		t.Error("expected error for unknown dataset kind")
	}
}
