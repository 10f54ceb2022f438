// Package catalog embeds the course catalog query layer in a Go program,
// reading the same MongoDB, Redis or Valkey store the HTTP API serves.
//
//	client, _ := catalog.New(ctx, catalog.WithMongo("mongodb://localhost:27017", "combinedDB"))
//	defer client.Close()
//
//	courses, _ := client.Courses().Search(ctx, catalog.Eq("subject_prefix", "CS"))
//	sec, _ := client.Sections().Get(ctx, "5f1c0a3b2d4e5f6a7b8c9d0e")
//
// Search requires at least one condition. Get returns ErrNotFound for unknown ids.
package catalog
