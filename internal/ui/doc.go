// Package ui implements an interactive mixer using bubbletea's Elm architecture.
//
// The TUI has two views over the current mix:
//  1. [MixView] : The generated tracks, with favorites marked
//  2. [StatsView] : Artist, genre, decade, popularity and mood statistics for the mix
//
// The [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the [Msg] union type.
// Every regeneration bumps a sequence number and cancels the previous generation's context, so only the latest
// mix and its statistics are ever shown.
//
// Keyboard bindings (r, s, w, f, esc, q) are displayed with charmbracelet/bubbles/help.
package ui
