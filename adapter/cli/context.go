package cli

import "context"

func contextWithCommand(ctx context.Context, info commandContext) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, commandContextKey{}, info)
}

func commandFromContext(ctx context.Context) (commandContext, bool) {
	if ctx == nil {
		return commandContext{}, false
	}
	info, ok := ctx.Value(commandContextKey{}).(commandContext)
	return info, ok
}
