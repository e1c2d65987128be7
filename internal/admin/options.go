package admin

import "time"

// CallOption tunes one operation invocation.
type CallOption func(*callOptions)

type callOptions struct {
	timeout time.Duration
}

// WithTimeout overrides the client's default request timeout for this
// invocation. The timeout bounds the whole call lifecycle from submission:
// waiting for a broker, transport readiness, every retry, and the response.
func WithTimeout(d time.Duration) CallOption {
	return func(o *callOptions) { o.timeout = d }
}

func (c *Client) callOptions(opts []CallOption) callOptions {
	o := callOptions{timeout: c.cfg.RequestTimeout}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}
