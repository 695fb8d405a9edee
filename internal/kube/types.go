// Package kube lists and deletes pods through kubectl.
package kube

import (
	"fmt"
	"time"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/util/duration"
)

// Phase mirrors the pod phases kubectl reports.
type Phase string

const (
	PhasePending   Phase = Phase(corev1.PodPending)
	PhaseRunning   Phase = Phase(corev1.PodRunning)
	PhaseSucceeded Phase = Phase(corev1.PodSucceeded)
	PhaseFailed    Phase = Phase(corev1.PodFailed)
	PhaseUnknown   Phase = Phase(corev1.PodUnknown)
)

// Pod is the subset of a pod the dashboard shows.
type Pod struct {
	Name      string
	Namespace string
	Phase     Phase
	Reason    string // e.g. CrashLoopBackOff; empty when the phase says it all
	Ready     int
	Total     int
	Restarts  int
	Node      string
	CreatedAt time.Time
}

// Key identifies a pod across refreshes.
func (p Pod) Key() string {
	return p.Namespace + "/" + p.Name
}

// ReadyString renders "ready/total".
func (p Pod) ReadyString() string {
	return fmt.Sprintf("%d/%d", p.Ready, p.Total)
}

// Status is the reason when present, else the phase.
func (p Pod) Status() string {
	if p.Reason != "" {
		return p.Reason
	}
	return string(p.Phase)
}

// Age formats time since creation the way kubectl does ("5m", "3d2h").
func (p Pod) Age(now time.Time) string {
	if p.CreatedAt.IsZero() {
		return "<unknown>"
	}
	return duration.HumanDuration(now.Sub(p.CreatedAt))
}

func fromAPI(item corev1.Pod) Pod {
	p := Pod{
		Name:      item.Name,
		Namespace: item.Namespace,
		Phase:     Phase(item.Status.Phase),
		Reason:    item.Status.Reason,
		Total:     len(item.Spec.Containers),
		Node:      item.Spec.NodeName,
		CreatedAt: item.CreationTimestamp.Time,
	}
	if p.Phase == "" {
		p.Phase = PhaseUnknown
	}
	if item.DeletionTimestamp != nil {
		p.Reason = "Terminating"
	}

	for _, cs := range item.Status.ContainerStatuses {
		p.Restarts += int(cs.RestartCount)
		if cs.Ready {
			p.Ready++
		}
		if p.Reason == "" && cs.State.Waiting != nil && cs.State.Waiting.Reason != "" {
			p.Reason = cs.State.Waiting.Reason
		}
		if p.Reason == "" && cs.State.Terminated != nil && cs.State.Terminated.Reason != "" && p.Phase != PhaseSucceeded {
			p.Reason = cs.State.Terminated.Reason
		}
	}
	return p
}
