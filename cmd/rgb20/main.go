// Command rgb20 is a thin issuer/wallet tool over the RGB20 core: it exports
// contract schemas, drafts new asset issuances and prepares transfer
// transitions from consignment files. Sealing the produced drafts to the
// Bitcoin blockchain is the job of the external commitment tooling.
package main

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"

	"rgb.tools/rgb20/asset"
	"rgb.tools/rgb20/contract"
	"rgb.tools/rgb20/schema"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printUsage(errOut)
		return 2
	}

	switch args[0] {
	case "schema":
		return cmdSchema(args[1:], out, errOut)
	case "issue":
		return cmdIssue(args[1:], out, errOut)
	case "transfer":
		return cmdTransfer(args[1:], out, errOut)
	case "help", "-h", "--help":
		printUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown command: %s\n\n", args[0])
		printUsage(errOut)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "rgb20: RGB20 fungible asset tool")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  rgb20 schema [--variant full|inflationary|simple] [--format json|hex] [file]")
	fmt.Fprintln(w, "  rgb20 issue --ticker <T> --name <N> --allocation <amount>@<txid>:<vout> ...")
	fmt.Fprintln(w, "        [--precision <n>] [--network <net>] [--variant <v>] [--contract <text>]")
	fmt.Fprintln(w, "        [--inflation <amount>@<txid>:<vout> ...] [--renomination <txid>:<vout>]")
	fmt.Fprintln(w, "        [--epoch <txid>:<vout>] [-o consignment.json]")
	fmt.Fprintln(w, "  rgb20 transfer --consignment <file> --utxo <txid>:<vout> ...")
	fmt.Fprintln(w, "        --beneficiary <amount>@<txid>:<vout> ... [--change <amount>@<txid>:<vout> ...]")
	fmt.Fprintln(w, "        -o transition.json")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Notes:")
	fmt.Fprintln(w, "  - drafts are unsealed; commit them with your anchoring tooling")
	fmt.Fprintln(w, "  - schema hex output is the canonical strict encoding")
}

func cmdSchema(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("schema", flag.ContinueOnError)
	fs.SetOutput(errOut)
	variantName := fs.String("variant", "full", "schema variant to export")
	format := fs.String("format", "json", "export format: json or hex")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	variant, err := parseVariant(*variantName)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 2
	}
	s := schema.Build(variant)

	w := out
	if file := fs.Arg(0); file != "" {
		f, err := os.Create(file)
		if err != nil {
			fmt.Fprintln(errOut, err)
			return 1
		}
		defer f.Close()
		w = f
	}

	switch *format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(s); err != nil {
			fmt.Fprintln(errOut, err)
			return 1
		}
	case "hex":
		var sb strings.Builder
		if err := s.Encode(hex.NewEncoder(&sb)); err != nil {
			fmt.Fprintln(errOut, err)
			return 1
		}
		fmt.Fprintln(w, sb.String())
	default:
		fmt.Fprintf(errOut, "unknown format: %s\n", *format)
		return 2
	}

	fmt.Fprintf(errOut, "schema id: %s\n", s.SchemaID())
	return 0
}

func cmdIssue(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("issue", flag.ContinueOnError)
	fs.SetOutput(errOut)
	ticker := fs.String("ticker", "", "asset ticker (3-8 letters, upper-cased)")
	name := fs.String("name", "", "asset name")
	ricardian := fs.String("contract", "", "Ricardian contract text or reference")
	precision := fs.Uint("precision", 8, "digits after the decimal point")
	network := fs.String("network", "signet", "Bitcoin network")
	variantName := fs.String("variant", "full", "schema variant to issue under")
	output := fs.String("o", "", "file for the resulting consignment")
	var allocations, inflation valueFlags
	fs.Var(&allocations, "allocation", "asset allocation as <amount>@<txid>:<vout>")
	fs.Var(&inflation, "inflation", "inflation right as <amount>@<txid>:<vout>")
	var renomination, epoch outpointFlag
	fs.Var(&renomination, "renomination", "output controlling renomination as <txid>:<vout>")
	fs.Var(&epoch, "epoch", "output controlling the first burn epoch as <txid>:<vout>")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	variant, err := parseVariant(*variantName)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 2
	}
	if len(allocations) == 0 {
		fmt.Fprintln(errOut, "at least one --allocation is required")
		return 2
	}

	gen, err := asset.NewGenesis(asset.GenesisParams{
		Variant:      variant,
		Network:      *network,
		Ticker:       *ticker,
		Name:         *name,
		Ricardian:    *ricardian,
		Precision:    uint8(*precision),
		Allocations:  allocations,
		Inflation:    inflation,
		Renomination: renomination.op,
		Epoch:        epoch.op,
	})
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}

	a, err := asset.Project(gen, nil)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}

	fmt.Fprintf(errOut, "contract id: %s\n", a.ContractID)
	if err := writeJSON(out, a); err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	if *output != "" {
		cons := contract.Consignment{Genesis: *gen}
		if err := writeJSONFile(*output, cons); err != nil {
			fmt.Fprintln(errOut, err)
			return 1
		}
	}
	return 0
}

func cmdTransfer(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("transfer", flag.ContinueOnError)
	fs.SetOutput(errOut)
	consignmentFile := fs.String("consignment", "", "consignment file with the asset history")
	output := fs.String("o", "", "file for the resulting transition draft")
	var utxos outpointFlags
	fs.Var(&utxos, "utxo", "outpoint to spend as <txid>:<vout>")
	var beneficiaries, change valueFlags
	fs.Var(&beneficiaries, "beneficiary", "beneficiary as <amount>@<txid>:<vout>")
	fs.Var(&change, "change", "change output as <amount>@<txid>:<vout>")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *consignmentFile == "" || len(utxos) == 0 || len(beneficiaries) == 0 {
		fmt.Fprintln(errOut, "--consignment, --utxo and --beneficiary are required")
		return 2
	}

	data, err := os.ReadFile(*consignmentFile)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	var cons contract.Consignment
	if err := json.Unmarshal(data, &cons); err != nil {
		fmt.Fprintf(errOut, "invalid consignment: %v\n", err)
		return 1
	}

	a, err := asset.Project(&cons.Genesis, cons.Transitions)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	draft, err := a.DraftTransfer(utxos, beneficiaries, change)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}

	if *output != "" {
		if err := writeJSONFile(*output, draft); err != nil {
			fmt.Fprintln(errOut, err)
			return 1
		}
	} else if err := writeJSON(out, draft); err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	fmt.Fprintf(errOut, "draft transition id: %s\n", draft.NodeID())
	return 0
}

func parseVariant(name string) (schema.Variant, error) {
	switch name {
	case "full":
		return schema.VariantFull, nil
	case "inflationary":
		return schema.VariantInflationary, nil
	case "simple":
		return schema.VariantSimple, nil
	default:
		return 0, fmt.Errorf("unknown schema variant: %s", name)
	}
}

func parseOutpoint(s string) (wire.OutPoint, error) {
	txidStr, voutStr, ok := strings.Cut(s, ":")
	if !ok {
		return wire.OutPoint{}, fmt.Errorf("outpoint %q must be <txid>:<vout>", s)
	}
	txid, err := chainhash.NewHashFromStr(txidStr)
	if err != nil {
		return wire.OutPoint{}, fmt.Errorf("outpoint %q: %v", s, err)
	}
	vout, err := strconv.ParseUint(voutStr, 10, 32)
	if err != nil {
		return wire.OutPoint{}, fmt.Errorf("outpoint %q: %v", s, err)
	}
	return wire.OutPoint{Hash: *txid, Index: uint32(vout)}, nil
}

func parseOutpointValue(s string) (asset.OutpointValue, error) {
	amountStr, opStr, ok := strings.Cut(s, "@")
	if !ok {
		return asset.OutpointValue{}, fmt.Errorf("value %q must be <amount>@<txid>:<vout>", s)
	}
	amount, err := strconv.ParseUint(amountStr, 10, 64)
	if err != nil {
		return asset.OutpointValue{}, fmt.Errorf("value %q: %v", s, err)
	}
	op, err := parseOutpoint(opStr)
	if err != nil {
		return asset.OutpointValue{}, err
	}
	return asset.OutpointValue{Outpoint: op, Value: amount}, nil
}

// valueFlags collects repeated <amount>@<txid>:<vout> flags.
type valueFlags []asset.OutpointValue

func (f *valueFlags) String() string { return fmt.Sprintf("%d values", len(*f)) }

func (f *valueFlags) Set(s string) error {
	v, err := parseOutpointValue(s)
	if err != nil {
		return err
	}
	*f = append(*f, v)
	return nil
}

// outpointFlags collects repeated <txid>:<vout> flags.
type outpointFlags []wire.OutPoint

func (f *outpointFlags) String() string { return fmt.Sprintf("%d outpoints", len(*f)) }

func (f *outpointFlags) Set(s string) error {
	op, err := parseOutpoint(s)
	if err != nil {
		return err
	}
	*f = append(*f, op)
	return nil
}

// outpointFlag holds a single optional <txid>:<vout> flag.
type outpointFlag struct {
	op *wire.OutPoint
}

func (f *outpointFlag) String() string {
	if f.op == nil {
		return ""
	}
	return f.op.String()
}

func (f *outpointFlag) Set(s string) error {
	op, err := parseOutpoint(s)
	if err != nil {
		return err
	}
	f.op = &op
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeJSONFile(file string, v any) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := writeJSON(f, v); err != nil {
		return err
	}
	return f.Close()
}
