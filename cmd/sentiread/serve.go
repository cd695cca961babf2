package main

// Run executes the serve command. It blocks until the context is canceled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	return deps.Server.ListenAndServe(deps.Ctx, c.Addr)
}
