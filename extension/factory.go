package extension

import "context"

// Factory produces an extension instance for the given build context.
// Returning (nil, nil) signals that the factory opts out for this
// mode/context; that is a normal path, not an error. A returned error fails
// the whole composition.
type Factory func(ctx context.Context, bctx BuildContext) (*Extension, error)
