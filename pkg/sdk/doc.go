// Package cecidarium provides an embedded Go client for the cecidarium
// gall catalog backed by Redis with the JSON module.
//
// The client wires the catalog and search services directly over the
// database connection, so loaders and batch tools skip the HTTP layer:
//
//	client, _ := cecidarium.New(ctx, cecidarium.WithRedis("localhost:6379", ""))
//	defer client.Close()
//
//	_, _ = client.Catalog().Upsert(ctx, cecidarium.Gall{
//	    ID:    17,
//	    Name:  "willow bean gall",
//	    Genus: "Pontania",
//	    Hosts: []string{"Salix fragilis"},
//	})
//
//	sess, _ := client.Search().StartByHost(ctx, "Salix fragilis")
//	sess, _ = client.Search().EditFacet(ctx, sess.ID, "color", []string{"red"})
package cecidarium
