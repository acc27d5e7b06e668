package sqlspec

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestFingerprintStability(t *testing.T) {
	a := NewFingerprint([]byte("select 1"), []byte("postgres"))
	b := NewFingerprint([]byte("select 1"), []byte("postgres"))
	assert.Equal(t, a, b)

	c := NewFingerprint([]byte("select 2"), []byte("postgres"))
	assert.NotEqual(t, a, c)
}

func TestFingerprintCombineIsDeterministic(t *testing.T) {
	a := NewFingerprint([]byte("x"))
	b := NewFingerprint([]byte("y"))
	assert.Equal(t, a.Combine(b), a.Combine(b))
	assert.NotEqual(t, a.Combine(b), b.Combine(a))
}

func TestVerdictString(t *testing.T) {
	assert.Equal(t, "Safe", Safe.String())
	assert.Equal(t, "Warning", Warning.String())
	assert.Equal(t, "Unsafe", Unsafe.String())
}

func TestValidationAccumulatorReduce(t *testing.T) {
	var acc ValidationAccumulator
	empty := acc.Reduce()
	assert.Equal(t, Safe, empty.Verdict)
	assert.Equal(t, RiskNone, empty.Risk)

	acc.Add(Issue{Kind: "injection", Severity: RiskHigh, Message: "looks dangerous", Processor: "InjectionDetector"})
	acc.Add(Issue{Kind: "suspicious_keyword", Severity: RiskLow, Message: "DROP seen", Processor: "SuspiciousKeywords"})

	result := acc.Reduce()
	assert.Equal(t, Unsafe, result.Verdict)
	assert.Equal(t, RiskHigh, result.Risk)
	assert.Equal(t, 2, len(result.Issues))
	assert.True(t, result.HasIssueKind("injection"))
	assert.False(t, result.HasIssueKind("tautology"))
}

func TestStatementKindHelpers(t *testing.T) {
	assert.Equal(t, "Select", KindSelect.String())
	assert.True(t, KindInsert.IsDML())
	assert.True(t, KindUpdate.IsDML())
	assert.False(t, KindSelect.IsDML())
	assert.False(t, KindDDL.IsDML())
}

func TestPlaceholderStyleString(t *testing.T) {
	assert.Equal(t, "qmark", Qmark.String())
	assert.Equal(t, "numeric_dollar", NumericDollar.String())
	assert.Equal(t, "named_colon", NamedColon.String())
	assert.Equal(t, "static", Static.String())
}

func TestComputeComplexityScore(t *testing.T) {
	score := ComputeComplexityScore(2, 1, 0, 0, 0, 0)
	assert.Equal(t, uint32(2*WeightJoin+1*WeightSubquery), score)

	assert.Equal(t, uint32(0), ComputeComplexityScore(0, 0, 0, 0, 0, 0))
}
