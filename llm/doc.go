// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package llm estimates meal nutrition by asking a chat-completion model.

A Gateway builds a prompt from a free-text food description, sends it
through a Completer (normally *Client, which speaks the OpenAI-compatible
/chat/completions protocol) and parses the reply with ParseContent:

	gw := llm.NewGateway(llm.NewClient(llm.ClientConfig{}), "", log)
	est, err := gw.Estimate(ctx, llm.Request{Description: "1 medium apple", APIKey: key})

Parsing yields one of three outcomes:

	OutcomeValid     full estimate, negatives clamped to zero
	OutcomeFallback  calories from the first digit run, confidence "low"
	OutcomeFailed    nothing usable; Estimate returns ErrUnparseable

Provider failures are returned as *UpstreamError, whose Kind tells the
HTTP layer which status to answer with.
*/
package llm
