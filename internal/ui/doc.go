// Package ui provides the Bubble Tea terminal interface for logscope.
//
// # Overview
//
// The UI shows the presenter's retained trace window in a scrolling
// viewport, colored by level, with a header naming the source and active
// filter and a status bar underneath:
//
//	┌────────────────────────────────────────────────────────────┐
//	│ logscope • logcat -v time • level≥W • filter: wifi         │
//	├────────────────────────────────────────────────────────────┤
//	│ W │ 02-07 17:45:33.100 WifiService: scan timeout            │
//	│ E │ 02-07 17:45:34.002 WifiHAL: driver error -22            │
//	│ ...                                                        │
//	├────────────────────────────────────────────────────────────┤
//	│ 2500 traces • 812 dropped • follow on • 17:45:34 • ? help   │
//	└────────────────────────────────────────────────────────────┘
//
// # Delivery Context
//
// Reader listeners must run on a single host context. Dispatcher implements
// reader.Executor by forwarding posted work to the running program as a
// message; Update executes it, so presenter callbacks and key handling never
// race. The presenter writes into a state.Store and Update re-renders only
// when the store version changed.
//
// # Key Bindings
//
//	/        edit filter (enter applies, esc cancels)
//	x        clear filter
//	L / l    raise / lower the minimum level
//	space    toggle follow
//	s        copy the window to the clipboard
//	T        cycle theme
//	j/k g/G  scroll
//	?        help
//	q        quit
//
// Theme, filter and level changes are saved to the preferences file.
package ui
