package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAlignmentLink_Type(t *testing.T) {
	tests := []struct {
		name string
		link AlignmentLink
		want string
	}{
		{"one to one", AlignmentLink{SourceIndices: []int{0}, TargetIndices: []int{0}}, "1-1"},
		{"two to one", AlignmentLink{SourceIndices: []int{1, 2}, TargetIndices: []int{1}}, "2-1"},
		{"deletion", AlignmentLink{SourceIndices: []int{3}}, "1-0"},
		{"insertion", AlignmentLink{TargetIndices: []int{4}}, "0-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.link.Type())
		})
	}
}

func TestAlignmentLink_XTargets(t *testing.T) {
	link := AlignmentLink{
		SourceDoc:     "A",
		TargetDoc:     "B",
		SourceIndices: []int{0, 1},
		TargetIndices: []int{0},
	}
	assert.Equal(t, "A:0 A:1;B:0", link.XTargets())
	assert.Equal(t, "auto", link.Status())

	insertion := AlignmentLink{SourceDoc: "A", TargetDoc: "B", TargetIndices: []int{2}}
	assert.Equal(t, ";B:2", insertion.XTargets())
}

func TestAlignmentLink_Refs(t *testing.T) {
	link := AlignmentLink{SourceDoc: "643", TargetDoc: "641", SourceIndices: []int{0}, TargetIndices: []int{3, 4}}
	assert.Equal(t, []string{"643:0", "641:3", "641:4"}, link.Refs())
}

func TestDocumentPairResult_Succeeded(t *testing.T) {
	assert.True(t, DocumentPairResult{Outcome: OutcomeSuccess}.Succeeded())
	assert.False(t, DocumentPairResult{Outcome: OutcomeFailure, Reason: ReasonEmptyText}.Succeeded())
}
