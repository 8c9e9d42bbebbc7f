// Quality metrics for comparing an upscaled result against its source
package metrics

import (
	"fmt"
	"sort"
	"time"

	"image-upscaler/internal/core"
)

// Metric defines the interface for quality metrics
type Metric interface {
	// Calculate computes the metric value
	Calculate(original, processed *core.Image) (float64, error)

	// GetName returns the metric name
	GetName() string

	// GetDescription returns the metric description
	GetDescription() string

	// GetRange returns the value range (min, max)
	GetRange() (float64, float64)

	// IsHigherBetter returns true if higher values indicate better quality
	IsHigherBetter() bool
}

// Evaluator manages and calculates multiple metrics
type Evaluator struct {
	metrics map[string]Metric
}

// NewEvaluator creates a new metrics evaluator
func NewEvaluator() *Evaluator {
	e := &Evaluator{
		metrics: make(map[string]Metric),
	}

	e.RegisterDefaultMetrics()

	return e
}

// RegisterDefaultMetrics registers all default metrics
func (e *Evaluator) RegisterDefaultMetrics() {
	e.Register("psnr", NewPSNR())
	e.Register("ssim", NewSSIM())
	e.Register("mse", NewMSE())
	e.Register("sharpness", NewSharpness())
}

// Register registers a metric
func (e *Evaluator) Register(name string, metric Metric) {
	e.metrics[name] = metric
}

// Names returns the registered metric names in lexical order.
func (e *Evaluator) Names() []string {
	names := make([]string, 0, len(e.metrics))
	for name := range e.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Calculate calculates a specific metric
func (e *Evaluator) Calculate(name string, original, processed *core.Image) (float64, error) {
	metric, exists := e.metrics[name]
	if !exists {
		return 0, fmt.Errorf("metric not found: %s", name)
	}

	return metric.Calculate(original, processed)
}

// CalculateAll calculates all registered metrics, skipping those that fail
func (e *Evaluator) CalculateAll(original, processed *core.Image) map[string]float64 {
	results := make(map[string]float64)

	for name, metric := range e.metrics {
		if value, err := metric.Calculate(original, processed); err == nil {
			results[name] = value
		}
	}

	return results
}

// QualityReport contains comprehensive quality assessment
type QualityReport struct {
	OverallScore float64            `json:"overall_score"`
	Metrics      map[string]float64 `json:"metrics"`
	Analysis     QualityAnalysis    `json:"analysis"`
	Timestamp    string             `json:"timestamp"`
}

// QualityAnalysis provides interpretation of metrics
type QualityAnalysis struct {
	QualityLevel string   `json:"quality_level"` // "excellent", "good", "fair", "poor"
	Issues       []string `json:"issues"`
	Suggestions  []string `json:"suggestions"`
}

// GenerateReport generates a comprehensive quality report
func (e *Evaluator) GenerateReport(original, processed *core.Image) QualityReport {
	metrics := e.CalculateAll(original, processed)

	return QualityReport{
		OverallScore: e.calculateOverallScore(metrics),
		Metrics:      metrics,
		Analysis:     e.analyzeQuality(metrics),
		Timestamp:    time.Now().Format("2006-01-02 15:04:05"),
	}
}

// calculateOverallScore calculates a weighted overall quality score
func (e *Evaluator) calculateOverallScore(metrics map[string]float64) float64 {
	weights := map[string]float64{
		"psnr":      0.4,
		"ssim":      0.4,
		"sharpness": 0.2,
	}

	totalWeight := 0.0
	weightedSum := 0.0

	for name, weight := range weights {
		if value, exists := metrics[name]; exists {
			weightedSum += e.normalizeMetric(name, value) * weight
			totalWeight += weight
		}
	}

	if totalWeight == 0 {
		return 0
	}

	return (weightedSum / totalWeight) * 100
}

// normalizeMetric normalizes a metric value to 0-1 range
func (e *Evaluator) normalizeMetric(name string, value float64) float64 {
	metric, exists := e.metrics[name]
	if !exists {
		return 0
	}

	min, max := metric.GetRange()

	if value < min {
		value = min
	}
	if value > max {
		value = max
	}

	if max == min {
		return 1.0
	}

	normalized := (value - min) / (max - min)

	if !metric.IsHigherBetter() {
		normalized = 1.0 - normalized
	}

	return normalized
}

// analyzeQuality analyzes quality metrics and provides insights
func (e *Evaluator) analyzeQuality(metrics map[string]float64) QualityAnalysis {
	analysis := QualityAnalysis{
		Issues:      make([]string, 0),
		Suggestions: make([]string, 0),
	}

	overallScore := e.calculateOverallScore(metrics)

	switch {
	case overallScore >= 90:
		analysis.QualityLevel = "excellent"
	case overallScore >= 75:
		analysis.QualityLevel = "good"
	case overallScore >= 60:
		analysis.QualityLevel = "fair"
	default:
		analysis.QualityLevel = "poor"
	}

	if psnr, exists := metrics["psnr"]; exists && psnr < 25 {
		analysis.Issues = append(analysis.Issues, "Low PSNR: the result drifts from the source when scaled back down")
		analysis.Suggestions = append(analysis.Suggestions, "Install a weight file that natively supports the requested scale")
	}

	if ssim, exists := metrics["ssim"]; exists && ssim < 0.8 {
		analysis.Issues = append(analysis.Issues, "Low SSIM: structure of the source is not preserved")
		analysis.Suggestions = append(analysis.Suggestions, "Check the model weights are not corrupted or mismatched")
	}

	if sharpness, exists := metrics["sharpness"]; exists && sharpness < 0.5 {
		analysis.Issues = append(analysis.Issues, "Result is noticeably softer than the source")
		analysis.Suggestions = append(analysis.Suggestions, "Prefer a super-resolution model over generic interpolation")
	}

	return analysis
}
