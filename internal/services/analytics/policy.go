package analytics

import (
	"fmt"
	"time"

	"LaborPulse/internal/domain/models"
	domsvc "LaborPulse/internal/domain/service"
)

// Rule is one aggregate advisory trigger: a predicate over the full metric
// map and the advisory text it emits. Predicates must not mutate metrics.
type Rule struct {
	Name      string
	Predicate func(metrics map[string]models.MetricResult) bool
	Advisory  string
}

// Evaluate applies rules in declaration order. Every matching rule fires, and
// each contributes exactly one advisory regardless of how many entities
// satisfy its condition.
func Evaluate(metrics map[string]models.MetricResult, rules []Rule) []models.Advisory {
	now := time.Now().UTC()
	out := make([]models.Advisory, 0, len(rules))
	for _, r := range rules {
		if r.Predicate == nil || !r.Predicate(metrics) {
			continue
		}
		out = append(out, models.Advisory{Rule: r.Name, Text: r.Advisory, Timestamp: now})
	}
	return out
}

// ThresholdRule is the declarative form of a rule, as handed over from the
// configuration layer.
type ThresholdRule struct {
	Name       string
	Metric     string // volatility | resilience
	Op         string // gt | gte | lt | lte
	Threshold  float64
	Quantifier string // any | all (default any)
	Advisory   string
}

// CompileRules turns declarative threshold rules into executable rules,
// preserving declaration order. Entities with an undefined metric never
// satisfy a comparison and are skipped by "any" and ignored by "all".
func CompileRules(specs []ThresholdRule) ([]Rule, error) {
	rules := make([]Rule, 0, len(specs))
	for _, s := range specs {
		cmp, err := comparator(s.Op)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", s.Name, err)
		}
		pick, err := metricPicker(s.Metric)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", s.Name, err)
		}
		all := s.Quantifier == "all"
		threshold := s.Threshold
		rules = append(rules, Rule{
			Name:     s.Name,
			Advisory: s.Advisory,
			Predicate: func(metrics map[string]models.MetricResult) bool {
				matched := false
				for _, m := range metrics {
					v := pick(m)
					if v == nil {
						continue
					}
					if cmp(*v, threshold) {
						matched = true
						if !all {
							return true
						}
					} else if all {
						return false
					}
				}
				return matched
			},
		})
	}
	return rules, nil
}

func comparator(op string) (func(v, t float64) bool, error) {
	switch op {
	case "gt":
		return func(v, t float64) bool { return v > t }, nil
	case "gte":
		return func(v, t float64) bool { return v >= t }, nil
	case "lt":
		return func(v, t float64) bool { return v < t }, nil
	case "lte":
		return func(v, t float64) bool { return v <= t }, nil
	default:
		return nil, fmt.Errorf("unknown op %q", op)
	}
}

func metricPicker(metric string) (func(models.MetricResult) *float64, error) {
	switch metric {
	case "volatility":
		return func(m models.MetricResult) *float64 { return m.Volatility }, nil
	case "resilience":
		return func(m models.MetricResult) *float64 { return m.Resilience }, nil
	default:
		return nil, fmt.Errorf("unknown metric %q", metric)
	}
}

// Evaluator wires a fixed compiled rule set behind the domain interface.
type Evaluator struct {
	rules []Rule
}

func NewEvaluator(rules []Rule) *Evaluator { return &Evaluator{rules: rules} }

func (e *Evaluator) Evaluate(metrics map[string]models.MetricResult) []models.Advisory {
	return Evaluate(metrics, e.rules)
}

var _ domsvc.RuleEvaluator = (*Evaluator)(nil)
