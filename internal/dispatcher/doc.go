// Package dispatcher brokers asynchronous results delivered by the platform
// (activity results, SDK dialogs) to the feature module that asked for them.
//
// A process owns exactly one Dispatcher. There is no exported constructor:
// the instance is obtained from a Provider, which creates it on first use and
// hands the same pointer to every caller afterwards. The owner of the
// Provider (the application lifecycle) passes the instance explicitly to the
// modules that need it.
package dispatcher
