// Package interactive is the full-screen terminal front-end for running
// sslocal against configured shadowsocks servers.
//
// The TUI provides:
//   - Main view with server groups, the running sslocal session and its log
//   - Release table for installing or updating sslocal from the release feed
//   - Download overlay with progress and cancellation
//   - Import form for adding a subscription group
//
// Every view is a layer on a layer.Stack; dialogs come from package dialog.
//
// Launch with: sstui
package interactive
