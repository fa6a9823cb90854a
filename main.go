package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/hauke96/sigolo/v2"
	"tilepart/box"
	ownIo "tilepart/io"
	"tilepart/parser"
	"tilepart/tiles"
	"tilepart/web"
)

const VERSION = "v0.1.0"

type PartitionFlags struct {
	Domain   string `help:"The domain to partition with lower and upper corner, both inclusive." placeholder:"box(0,0,53,53)" required:""`
	TileSize string `help:"The size of the tiles in every dimension." placeholder:"size(4,4)" required:""`
	Workers  int    `help:"Number of goroutines used to build the cell index." default:"1"`
}

var cli struct {
	Logging   string      `help:"Logging verbosity." enum:"info,debug,trace" short:"l" default:"info"`
	Version   VersionFlag `help:"Print version information and quit" name:"version" short:"v"`
	Partition struct {
		PartitionFlags `embed:""`
		Locality       bool `help:"Also print the tiles in locality preserving order (1D and 2D only)."`
	} `cmd:"" help:"Partitions the domain and prints a summary of the tiles."`
	Query struct {
		PartitionFlags `embed:""`
		Query          string `help:"The query string." placeholder:"<query>" arg:""`
	} `cmd:"" help:"Runs the query against the partition and prints the results as JSON."`
	Export struct {
		PartitionFlags `embed:""`
		Output         string `help:"The GeoJSON output file." default:"tiles.geojson" type:"path"`
	} `cmd:"" help:"Writes the tiles of a two dimensional partition to a GeoJSON file."`
	Server struct {
		Port      string `help:"The port of the HTTP server." default:"8080"`
		CacheSize int    `help:"Maximum number of partitions kept in memory." default:"32"`
		Workers   int    `help:"Number of goroutines used to build the cell index of new partitions." default:"1"`
		MaxCells  int    `help:"Maximum number of cells of a partition created through the API." default:"67108864"`
		TlsCert   string `help:"Certificate file to enable TLS." type:"existingfile"`
		TlsKey    string `help:"Key file to enable TLS." type:"existingfile"`
	} `cmd:"" help:"Starts the HTTP API."`
}

type VersionFlag string

func (v VersionFlag) Decode(ctx *kong.DecodeContext) error { return nil }
func (v VersionFlag) IsBool() bool                         { return true }
func (v VersionFlag) BeforeApply(app *kong.Kong, vars kong.Vars) error {
	fmt.Println(vars["version"])
	app.Exit(0)
	return nil
}

func main() {
	ctx := kong.Parse(
		&cli,
		kong.Name("tilepart"),
		kong.Description("Partitions N-dimensional integer domains into tiles and answers queries on them."),
		kong.Configuration(kong.JSON, "./tilepart.json", "~/.tilepart.json"),
		kong.Vars{
			"version": VERSION,
		},
	)

	if strings.ToLower(cli.Logging) == "debug" {
		sigolo.SetDefaultLogLevel(sigolo.LOG_DEBUG)
	} else if strings.ToLower(cli.Logging) == "trace" {
		sigolo.SetDefaultLogLevel(sigolo.LOG_TRACE)
	} else if strings.ToLower(cli.Logging) == "info" {
		sigolo.SetDefaultLogLevel(sigolo.LOG_INFO)
		sigolo.SetDefaultFormatFunctionAll(sigolo.LogPlain)
	} else {
		sigolo.SetDefaultFormatFunctionAll(sigolo.LogPlain)
		sigolo.Fatalf("Unknown logging level '%s'", cli.Logging)
	}

	switch ctx.Command() {
	case "partition":
		tileSet, err := buildTileSet(cli.Partition.PartitionFlags)
		sigolo.FatalCheck(err)

		printSummary(tileSet)

		if cli.Partition.Locality {
			order, err := tileSet.LocalityOrder()
			sigolo.FatalCheck(err)
			for _, i := range order {
				fmt.Printf("%d\t%s\n", i, tileSet.Tile(i))
			}
		}
	case "query <query>":
		tileSet, err := buildTileSet(cli.Query.PartitionFlags)
		sigolo.FatalCheck(err)

		q, err := parser.ParseQueryString(cli.Query.Query)
		sigolo.FatalCheck(err)

		results, err := q.Execute(tileSet.MakeView())
		sigolo.FatalCheck(err)

		err = ownIo.WriteResultsAsJson(results, os.Stdout)
		sigolo.FatalCheck(err)
	case "export":
		tileSet, err := buildTileSet(cli.Export.PartitionFlags)
		sigolo.FatalCheck(err)

		err = ownIo.WriteTilesAsGeoJsonFile(tileSet.MakeView(), cli.Export.Output)
		sigolo.FatalCheck(err)
		sigolo.Infof("Wrote %d tiles to %s", tileSet.Len(), cli.Export.Output)
	case "server":
		if cli.Server.TlsCert != "" && cli.Server.TlsKey != "" {
			web.StartServerTls(cli.Server.Port, cli.Server.TlsCert, cli.Server.TlsKey, cli.Server.CacheSize, cli.Server.Workers, cli.Server.MaxCells)
		} else {
			web.StartServer(cli.Server.Port, cli.Server.CacheSize, cli.Server.Workers, cli.Server.MaxCells)
		}
	default:
		sigolo.Errorf("Unknown command '%s'", ctx.Command())
	}
}

func buildTileSet(flags PartitionFlags) (*tiles.TileSet[box.Box], error) {
	domain, err := parser.ParseBox(flags.Domain)
	if err != nil {
		return nil, err
	}

	tileSize, err := parser.ParseSize(flags.TileSize)
	if err != nil {
		return nil, err
	}

	return tiles.NewBoxes(domain, tileSize, tiles.WithWorkers(flags.Workers))
}

func printSummary(tileSet *tiles.TileSet[box.Box]) {
	sigolo.Infof("Domain    : %s", tileSet.Domain())
	sigolo.Infof("Tile size : %v", tileSet.TileSize())
	sigolo.Infof("Shape     : %v", tileSet.Shape())
	sigolo.Infof("Tiles     : %d", tileSet.Len())
	sigolo.Infof("Inner     : %d", len(tileSet.InnerTiles()))

	border, err := tileSet.BorderTiles()
	if err != nil {
		sigolo.Infof("Border    : undefined (%s)", err)
		return
	}
	sigolo.Infof("Border    : %d", len(border))
}
