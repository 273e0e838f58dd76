package alert

import (
	"context"

	"cpuwatch/logging"

	"github.com/valyala/fasthttp"
)

const (
	// PanicUsername is posted with every panic alert, whatever the report
	// webhook is called.
	PanicUsername = "webhook-alerts"
	PanicPrefix   = "Failure occurred: \n"
)

// State of the delivery state machine. StatePanic is terminal.
type State int

const (
	StateNormal State = iota
	StatePanic
)

func (s State) String() string {
	if s == StatePanic {
		return "PANIC"
	}
	return "NORMAL"
}

// Delivery classifies the report webhook's answer.
type Delivery int

const (
	Delivered Delivery = iota
	// PossiblyDelivered is a 200: accepted, but not the 204 a webhook
	// normally gives. It is not retried.
	PossiblyDelivered
	Failed
)

// Result of one Deliver call. Panic is set only in StatePanic and holds the
// answer of the single alert attempt.
type Result struct {
	State    State
	Delivery Delivery
	Report   Outcome
	Failure  string
	Panic    *Outcome
}

// Controller delivers a report and escalates to the panic sink when the
// report sink does not accept it.
type Controller struct {
	Report   Sink
	Panic    Sink
	Username string
	Logger   *logging.Logger
}

func (c *Controller) Deliver(ctx context.Context, body string) Result {
	c.Logger.Infof("Sending message...")
	out := c.Report.Send(ctx, Payload{Username: c.Username, Content: body})
	c.Logger.Infof("Message sent")

	switch {
	case out.Err == nil && out.StatusCode == fasthttp.StatusNoContent:
		c.Logger.Infof("Message sent successfully")
		return Result{State: StateNormal, Delivery: Delivered, Report: out}
	case out.Err == nil && out.StatusCode == fasthttp.StatusOK:
		c.Logger.Infof("Message maybe sent successfully")
		return Result{State: StateNormal, Delivery: PossiblyDelivered, Report: out}
	}

	failure := "Error sending message. " + out.String()
	if out.Err != nil {
		failure = "Error sending message: " + out.String()
	}
	c.Logger.Errorf("%s", failure)

	alert := c.escalate(ctx, failure)
	return Result{
		State:    StatePanic,
		Delivery: Failed,
		Report:   out,
		Failure:  failure,
		Panic:    &alert,
	}
}

// escalate makes the one and only alert attempt. Its failure is logged and
// otherwise accepted.
func (c *Controller) escalate(ctx context.Context, failure string) Outcome {
	c.Logger.Errorf("Failure occurred: %s", failure)
	c.Logger.Infof("Sending panic message to alert webhook")
	payload := Payload{Username: PanicUsername, Content: PanicPrefix + failure}
	c.Logger.Infof("Panic message data: %+v", payload)

	out := c.Panic.Send(ctx, payload)
	c.Logger.Infof("Panic message sent")

	switch {
	case out.Err == nil && out.StatusCode == fasthttp.StatusNoContent:
		c.Logger.Infof("Panic message sent successfully")
	case out.Err == nil && out.StatusCode == fasthttp.StatusOK:
		c.Logger.Infof("Panic message maybe sent successfully")
	default:
		c.Logger.Errorf("Error sending panic message. %s", out.String())
	}
	return out
}
