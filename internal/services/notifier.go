package services

import (
	"context"
	"log"
	"strings"
	"sync"
)

const (
	NotificationEvaluationSubmitted = "evaluation.submitted"
	NotificationAssignmentCreated   = "assignment.created"
)

// Notification carries enough payload for an email template to render. The
// dispatch itself is fire-and-forget; a lost notification is never an error
// for the operation that produced it.
type Notification struct {
	Type           string
	JuryMemberName string
	Email          string
	CandidateNames []string
	Round          int
}

// Mailer is the outbound side of the dispatcher. The default implementation
// only logs; a real SMTP client can be swapped in at wiring time.
type Mailer interface {
	Send(n Notification) error
}

type logMailer struct{}

func NewLogMailer() Mailer {
	return logMailer{}
}

func (logMailer) Send(n Notification) error {
	log.Printf("📧 [%s] jury=%q round=%d candidates=%s\n",
		n.Type, n.JuryMemberName, n.Round, strings.Join(n.CandidateNames, ", "))
	return nil
}

type Notifier interface {
	Start(ctx context.Context)
	Stop()
	Notify(n Notification)
}

type notifier struct {
	mailer   Mailer
	queue    chan Notification
	wg       sync.WaitGroup
	stopChan chan struct{}
}

func NewNotifier(mailer Mailer) Notifier {
	return &notifier{
		mailer:   mailer,
		queue:    make(chan Notification, 100),
		stopChan: make(chan struct{}),
	}
}

// Start implements Notifier.
func (w *notifier) Start(ctx context.Context) {
	w.wg.Add(1)
	go w.dispatch(ctx)
	log.Println("✅ Notification dispatcher started")
}

// Stop implements Notifier.
func (w *notifier) Stop() {
	close(w.stopChan)
	w.wg.Wait()
	log.Println("✅ Notification dispatcher stopped")
}

// Notify implements Notifier. It never blocks the calling request: when the
// queue is full the notification is dropped.
func (w *notifier) Notify(n Notification) {
	select {
	case w.queue <- n:
	case <-w.stopChan:
		log.Printf("⚠️  Dispatcher stopped, dropping %s notification\n", n.Type)
	default:
		log.Printf("⚠️  Notification queue full, dropping %s notification\n", n.Type)
	}
}

func (w *notifier) dispatch(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case n := <-w.queue:
			if err := w.mailer.Send(n); err != nil {
				log.Printf("⚠️  Failed to send %s notification: %v\n", n.Type, err)
			}
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}
