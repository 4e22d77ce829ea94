package tracker

import (
	"time"
)

type (
	// Alert is a message shown to the user for a while. Alerts with the same
	// non-empty Name replace each other, so e.g. a progress message updates in
	// place instead of stacking up.
	Alert struct {
		Name      string
		Priority  AlertPriority
		Message   string
		Duration  time.Duration
		FadeLevel float64
	}

	AlertPriority int

	// Alerts is the queue of alerts currently shown.
	Alerts struct {
		alerts []Alert
	}
)

const (
	Info AlertPriority = iota
	Warning
	Error
)

const defaultAlertDuration = 3 * time.Second

func (p AlertPriority) String() string {
	switch p {
	case Warning:
		return "warning"
	case Error:
		return "error"
	}
	return "info"
}

// Iterate yields the alerts, newest first.
func (m *Alerts) Iterate(yield func(index int, alert Alert) bool) {
	for i := len(m.alerts) - 1; i >= 0; i-- {
		if !yield(len(m.alerts)-1-i, m.alerts[i]) {
			return
		}
	}
}

func (m *Alerts) Len() int { return len(m.alerts) }

// Update ages the alerts by d and drops the expired ones. Returns true if any
// alerts remain, i.e. the front-end should keep refreshing.
func (m *Alerts) Update(d time.Duration) (animating bool) {
	kept := m.alerts[:0]
	for _, a := range m.alerts {
		a.Duration -= d
		if a.Duration > 0 {
			a.FadeLevel = min(1, a.Duration.Seconds()/0.3)
			kept = append(kept, a)
		}
	}
	clear(m.alerts[len(kept):])
	m.alerts = kept
	return len(m.alerts) > 0
}

// Add shows a message with the default duration.
func (m *Alerts) Add(message string, priority AlertPriority) {
	m.AddAlert(Alert{
		Priority: priority,
		Message:  message,
		Duration: defaultAlertDuration,
	})
}

// AddNamed shows a message replacing any earlier alert with the same name.
func (m *Alerts) AddNamed(name, message string, priority AlertPriority) {
	m.AddAlert(Alert{
		Name:     name,
		Priority: priority,
		Message:  message,
		Duration: defaultAlertDuration,
	})
}

func (m *Alerts) AddAlert(a Alert) {
	if a.Duration <= 0 {
		a.Duration = defaultAlertDuration
	}
	a.FadeLevel = 1
	if a.Name != "" {
		for i := range m.alerts {
			if m.alerts[i].Name == a.Name {
				m.alerts[i] = a
				return
			}
		}
	}
	m.alerts = append(m.alerts, a)
}

// Top returns the most important of the newest alerts; ok is false if there
// are none.
func (m *Alerts) Top() (a Alert, ok bool) {
	for i := len(m.alerts) - 1; i >= 0; i-- {
		if !ok || m.alerts[i].Priority > a.Priority {
			a, ok = m.alerts[i], true
		}
	}
	return
}
