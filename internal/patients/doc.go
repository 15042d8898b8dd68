// Package patients implements the local patient data service.
//
// The Service owns the store handle and exposes four operations:
//
//	svc := patients.NewService(store, patients.Options{Logger: logger})
//
//	err := svc.Init(ctx)                      // create schema, idempotent
//	err = svc.AddPatient(ctx, record)          // one insert
//	list, err := svc.ListPatients(ctx)         // everything, id order
//	result, err := svc.QueryPatients(ctx, sql) // ad-hoc SQL, verbatim
//
// QueryPatients executes whatever statement it is given, including DDL and
// DML. Setting Options.ReadOnlyQueries rejects statements that do not start
// with a reading keyword before they reach the store.
//
// # Degraded Mode
//
// A Service built with a nil store keeps the rest of the application usable
// when the runtime has no persistent storage: Init and AddPatient do nothing,
// ListPatients and QueryPatients return empty results.
//
// # Browsing
//
// Filter, Sort and Browse are pure helpers over a listed slice:
//
//	shown := patients.Browse(list, "smith", patients.SortByAge)
//
// # Query Sessions
//
// A QuerySession keeps the last successful result so that a rejected
// statement never clears what the user is looking at, and remembers recent
// statements in an LRU history.
package patients
