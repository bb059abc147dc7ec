// Package gridprox embeds the gridprox proximity engine in a Go program.
//
// A Client geocodes an address, loads the power-line runs of the surrounding suburbs
// (through a file, Redis or Valkey response cache) and reports the distance to the
// nearest line of every voltage class.
//
//	client, _ := gridprox.New(ctx, gridprox.WithFileCache(".cache/gridprox.json"))
//	defer client.Close()
//
//	res, _ := client.Proximity(ctx, "1 Martin Place, Sydney NSW 2000",
//	    gridprox.WithRadius(3000),
//	)
//	for _, d := range res.Highlights() {
//	    fmt.Println(d)
//	}
package gridprox
