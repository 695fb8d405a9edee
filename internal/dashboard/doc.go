// Package dashboard implements the stackdeck terminal UI: a tabbed view of
// host metrics, docker containers and images, and Kubernetes pods.
//
// # Architecture
//
// The package uses Bubble Tea (Model-Update-View). Update is the only code
// that touches AppState; everything blocking runs on a worker.Pool.
//
//	Model            - The Bubble Tea model wiring everything together
//	AppState         - Tabs, cached lists, selections and the status message
//	Scheduler        - At most one fetch in flight per Source
//	Dispatcher       - Turns key actions into state changes and lifecycle Requests
//	History          - Ring buffers behind the System tab sparklines
//	ContainerHistory - Per-container series for the Docker detail panel
//
// # Message Flow
//
//  1. tickMsg fires every interval and asks the Scheduler which of the
//     visible tab's sources are idle
//  2. Each due source is submitted to the pool
//  3. pool.Next() delivers a worker.Result; the model merges it and re-arms
//     the poller
//  4. Lifecycle results re-list the affected sources. A source already
//     mid-fetch is fetched again once that older result lands
//
// Only the visible tab is polled. Switching tabs fetches the new tab at once
// and keeps every other tab's cached data.
//
// # Keyboard Shortcuts
//
//	1/2/3, ctrl+s/d/k  - Switch tab (tab cycles)
//	j/k, ↑/↓, g/G      - Move selection
//	s, x, t            - Start, stop, restart container
//	D, delete          - Remove container, image or pod (asks y/n)
//	n                  - Create container form
//	p, e, m, f         - Quick PostgreSQL, Redis, MongoDB, Grafana
//	v                  - Containers / images
//	r                  - Refresh now
//	?                  - Help
//	q, ctrl+c          - Quit
package dashboard
