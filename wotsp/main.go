package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/bwesterb/go-wotsp"

	"github.com/urfave/cli"
	"go.uber.org/zap"
)

// Routes the log messages of the wotsp package to zap.
type zapLogger struct {
	l *zap.SugaredLogger
}

func (logger zapLogger) Logf(format string, a ...interface{}) {
	logger.l.Debugf(format, a...)
}

var threads int

func contextFromFlags(c *cli.Context) (*wotsp.Context, error) {
	alg := c.String("alg")
	ctx := wotsp.NewContextFromName(alg)
	if ctx == nil {
		return nil, fmt.Errorf("unknown algorithm %s; see the algs command", alg)
	}
	ctx.Threads = threads
	return ctx, nil
}

func hexFlag(c *cli.Context, name string) ([]byte, error) {
	val := c.String(name)
	if val == "" {
		return nil, fmt.Errorf("missing --%s", name)
	}
	ret, err := hex.DecodeString(val)
	if err != nil {
		return nil, fmt.Errorf("--%s: %v", name, err)
	}
	return ret, nil
}

func cmdAlgs(c *cli.Context) error {
	for _, name := range wotsp.ListNames() {
		ctx := wotsp.NewContextFromName(name)
		fmt.Printf("%-16s oid=%d len=%d sigsize=%d\n", ctx.Name(), ctx.Oid(),
			ctx.Len(), ctx.SignatureSize())
	}

	return nil
}

func cmdKeygen(c *cli.Context) error {
	ctx, err := contextFromFlags(c)
	if err != nil {
		return err
	}
	sk, pk, err2 := ctx.GenerateKeyPair(nil)
	if err2 != nil {
		return err2
	}
	addr := sk.Address()
	pkBytes, _ := pk.MarshalBinary()
	fmt.Printf("seed:    %x\n", sk.Seed())
	fmt.Printf("pubseed: %x\n", pk.PubSeed())
	fmt.Printf("addr:    %x\n", addr[:])
	fmt.Printf("pk:      %x\n", pkBytes)
	return nil
}

func cmdSign(c *cli.Context) error {
	ctx, err := contextFromFlags(c)
	if err != nil {
		return err
	}
	seed, err := hexFlag(c, "seed")
	if err != nil {
		return err
	}
	pubSeed, err := hexFlag(c, "pubseed")
	if err != nil {
		return err
	}
	addrBytes, err := hexFlag(c, "addr")
	if err != nil {
		return err
	}
	msg, err := hexFlag(c, "msg")
	if err != nil {
		return err
	}
	if len(addrBytes) != len(wotsp.Address{}) {
		return fmt.Errorf("--addr should be %d bytes", len(wotsp.Address{}))
	}
	var addr wotsp.Address
	copy(addr[:], addrBytes)

	sk, err2 := ctx.NewSecretKey(seed, addr)
	if err2 != nil {
		return err2
	}
	sig, err2 := sk.Sign(pubSeed, msg)
	if err2 != nil {
		return err2
	}
	sigBytes, _ := sig.MarshalBinary()
	fmt.Printf("%x\n", sigBytes)
	return nil
}

func cmdVerify(c *cli.Context) error {
	ctx, err := contextFromFlags(c)
	if err != nil {
		return err
	}
	pkBytes, err := hexFlag(c, "pk")
	if err != nil {
		return err
	}
	sigBytes, err := hexFlag(c, "sig")
	if err != nil {
		return err
	}
	msg, err := hexFlag(c, "msg")
	if err != nil {
		return err
	}

	pk, err2 := ctx.UnmarshalPublicKey(pkBytes)
	if err2 != nil {
		return err2
	}
	sig, err2 := ctx.UnmarshalSignature(sigBytes)
	if err2 != nil {
		return err2
	}
	ok, err2 := pk.Verify(sig, msg)
	if !ok {
		return cli.NewExitError(err2.Error(), 1)
	}
	fmt.Println("signature ok")
	return nil
}

func main() {
	app := cli.NewApp()
	app.Name = "wotsp"
	app.Usage = "WOTS+ one-time signatures"

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: "log debug messages",
		},
		cli.IntFlag{
			Name:        "threads, t",
			Usage:       "goroutines per operation; 0 for the number of CPUs",
			Destination: &threads,
		},
	}

	app.Before = func(c *cli.Context) error {
		if !c.Bool("verbose") {
			return nil
		}
		logger, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		wotsp.SetLogger(zapLogger{logger.Sugar()})
		return nil
	}

	algFlag := cli.StringFlag{
		Name:  "alg, a",
		Value: "WOTSP-SHA2_256",
		Usage: "WOTS+ instance to use",
	}

	app.Commands = []cli.Command{
		{
			Name:   "algs",
			Usage:  "List WOTS+ instances",
			Action: cmdAlgs,
		},
		{
			Name:   "keygen",
			Usage:  "Generate a random WOTS+ key pair",
			Action: cmdKeygen,
			Flags:  []cli.Flag{algFlag},
		},
		{
			Name:   "sign",
			Usage:  "Sign an N-byte message (hex) once",
			Action: cmdSign,
			Flags: []cli.Flag{
				algFlag,
				cli.StringFlag{Name: "seed", Usage: "secret seed (hex)"},
				cli.StringFlag{Name: "pubseed", Usage: "public seed (hex)"},
				cli.StringFlag{Name: "addr", Usage: "32-byte address (hex)"},
				cli.StringFlag{Name: "msg", Usage: "message digest (hex)"},
			},
		},
		{
			Name:   "verify",
			Usage:  "Verify a signature",
			Action: cmdVerify,
			Flags: []cli.Flag{
				algFlag,
				cli.StringFlag{Name: "pk", Usage: "public key (hex)"},
				cli.StringFlag{Name: "sig", Usage: "signature (hex)"},
				cli.StringFlag{Name: "msg", Usage: "message digest (hex)"},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
