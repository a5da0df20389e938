package trace

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/devrev/cachetrace/internal/store"
)

// Replay writes the recorded call history of the named operation to w: one
// line stating the operation name and total call count, then one line per
// paired input/output entry in log order, formatted as
// "<name>(*<input>) -> <output>". Replay performs no writes. An absent
// counter is an error, never a silent zero count.
func Replay(ctx context.Context, kv store.Store, name string, w io.Writer) error {
	raw, err := kv.Get(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to read call counter for %s: %w", name, err)
	}

	count, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return fmt.Errorf("failed to decode call counter for %s: %w", name, err)
	}

	inputs, err := kv.ListRange(ctx, InputsKey(name), 0, -1)
	if err != nil {
		return fmt.Errorf("failed to read input history for %s: %w", name, err)
	}

	outputs, err := kv.ListRange(ctx, OutputsKey(name), 0, -1)
	if err != nil {
		return fmt.Errorf("failed to read output history for %s: %w", name, err)
	}

	fmt.Fprintf(w, "%s was called %d times:\n", name, count)

	// A failed call leaves an input without a paired output; render only
	// the fully paired prefix.
	pairs := len(inputs)
	if len(outputs) < pairs {
		pairs = len(outputs)
	}

	for i := 0; i < pairs; i++ {
		fmt.Fprintf(w, "%s(*%s) -> %s\n", name, inputs[i], outputs[i])
	}

	return nil
}
