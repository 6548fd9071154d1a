// Package search implements the region lookup: region code normalization
// and validation, the HTTP client for the lookup service, and the
// Controller state machine that turns a submit into exactly one request
// and its response into what the user sees.
//
// Typical use:
//
//	client, err := search.NewHTTPClientFromConfig(cfg.API, logger)
//	ctrl := search.NewController(logger)
//	state := ctrl.Run(ctx, client, "sp")
//	switch state.Phase {
//	case search.PhaseError:
//		fmt.Println(state.Message)
//	case search.PhaseResult:
//		...
//	}
//
// Interactive callers split Run into Submit, an asynchronous Lookup, and
// Settle so the UI stays responsive while the request is in flight.
package search
