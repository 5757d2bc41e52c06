// Package shell turns raw command lines into pipelines.
//
// The grammar is deliberately small:
//
//  1. A line is split on every pipe character "|" into stages, left to right.
//     Empty segments (a leading, trailing or doubled pipe) are kept as empty
//     stages.
//
//  2. A stage is trimmed of surrounding whitespace and split on the space
//     character. Runs of spaces act as a single separator. There is no quoting,
//     escaping, expansion or redirection.
//
//  3. The first word of a stage names the program; all words, including the
//     first, form its argument vector.
package shell

import (
	"fmt"
	"strings"
)

const (
	// PipeDelimiter separates the stages of a pipeline.
	PipeDelimiter = "|"
	// ArgDelimiter separates the words of a stage.
	ArgDelimiter = " "
)

// Stage is one program invocation within a pipeline.
type Stage struct {
	// Program is the name or path of the executable, empty if the stage had no
	// words.
	Program string
	// Arguments holds the argument vector, Arguments[0] is always Program.
	Arguments []string
	// Empty is set when the stage text contained no words.
	Empty bool
}

// Pipeline is an ordered list of stages connected by pipes.
type Pipeline struct {
	Stages []Stage
}

// Len returns the number of stages in the pipeline.
func (p *Pipeline) Len() int {
	return len(p.Stages)
}

// IsEmpty reports whether the pipeline represents "no command": a single
// stage with no words.
func (p *Pipeline) IsEmpty() bool {
	return len(p.Stages) == 1 && p.Stages[0].Empty
}

// Programs returns the program name of every stage in order.
func (p *Pipeline) Programs() []string {
	var out []string
	for _, stage := range p.Stages {
		out = append(out, stage.Program)
	}
	return out
}

// String renders a stable, human readable dump of the pipeline.
func (p *Pipeline) String() string {
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "stages: %d\n", p.Len())
	for i, stage := range p.Stages {
		fmt.Fprintf(sb, "[%d] program=%q args=%q empty=%t\n", i, stage.Program, stage.Arguments, stage.Empty)
	}
	return sb.String()
}

// ParseStage parses the text of a single stage.
//
// An example is the text "ls -a -lh", which results in a stage with the
// program "ls" and the arguments ["ls", "-a", "-lh"].
func ParseStage(text string) Stage {
	text = strings.TrimSuffix(text, "\n")
	text = strings.TrimSpace(text)

	var words []string
	for _, word := range strings.Split(text, ArgDelimiter) {
		// Consecutive delimiters collapse into one.
		if word == "" {
			continue
		}
		words = append(words, word)
	}

	if len(words) == 0 {
		return Stage{
			Program:   "",
			Arguments: []string{""},
			Empty:     true,
		}
	}

	return Stage{
		Program:   words[0],
		Arguments: words,
	}
}

// Parse builds a pipeline from one raw input line. It never fails: a line
// without any words yields a pipeline with a single empty stage.
func Parse(line string) *Pipeline {
	p := &Pipeline{}
	for _, segment := range strings.Split(line, PipeDelimiter) {
		p.Stages = append(p.Stages, ParseStage(segment))
	}
	return p
}
