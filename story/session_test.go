package story

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionProposeThenRevise(t *testing.T) {
	llm := &scriptedLLM{judgeVerdicts: []string{approveVerdict}}
	p := newTestPipeline(t, llm)
	sess := NewSession("s1", "a story about a brave teapot", "silly", 1, p)

	text, eval, err := sess.Propose(context.Background())
	require.NoError(t, err)
	gotText, gotEval, history := sess.Snapshot()
	assert.Equal(t, text, gotText)
	assert.Equal(t, eval, gotEval)
	require.Len(t, history, 1)

	revised, err := sess.Revise(context.Background(), "make the teapot whistle a song")
	require.NoError(t, err)
	gotText, gotEval, history = sess.Snapshot()
	assert.Equal(t, revised, gotText)
	assert.NotEqual(t, text, revised)
	// The prior story is replaced, and the last judged verdict is kept as is.
	assert.Equal(t, eval, gotEval)
	require.Len(t, history, 2)
	assert.Equal(t, "make the teapot whistle a song", history[1].Comment)
	assert.Equal(t, 1, llm.judgeCalls)
}

// echoLLM answers every prompt with a fixed reply and holds no state, so it
// is safe to call from many goroutines.
type echoLLM struct{ reply string }

func (e *echoLLM) Complete(context.Context, Prompt, CallOptions) (string, error) {
	return e.reply, nil
}

func TestSessionRevisionsAreSerialized(t *testing.T) {
	llm := &scriptedLLM{judgeVerdicts: []string{approveVerdict}}
	p := newTestPipeline(t, llm)
	sess := NewSession("s1", "a story about a sleepy fox", "cozy", 1, p)

	_, _, err := sess.Propose(context.Background())
	require.NoError(t, err)

	// Swap in a stateless backend so concurrent revisions exercise only the
	// session's own synchronization.
	gw, err := NewGateway(&echoLLM{reply: "a calmer story"})
	require.NoError(t, err)
	sess.pipeline = NewPipeline(gw, sess.pipeline.logger)

	const revisions = 10
	var wg sync.WaitGroup
	for i := 0; i < revisions; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := sess.Revise(context.Background(), fmt.Sprintf("change %d", i))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	text, _, history := sess.Snapshot()
	assert.Equal(t, "a calmer story", text)
	// One draft turn plus every revision, none lost to interleaving.
	require.Len(t, history, 1+revisions)
}
