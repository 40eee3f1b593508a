package asset

import (
	"testing"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"

	"rgb.tools/rgb20/cidutil"
	"rgb.tools/rgb20/contract"
	"rgb.tools/rgb20/schema"
)

func testOutpoint(tag string, index uint32) wire.OutPoint {
	return wire.OutPoint{Hash: chainhash.HashH([]byte(tag)), Index: index}
}

func testWitness(tag string) chainhash.Hash {
	return chainhash.HashH([]byte("witness/" + tag))
}

// fullGenesis issues 1000 units across two allocations under the full schema,
// with an inflation right capped at 500, a renomination right and an open
// epoch right.
func fullGenesis(t *testing.T) *contract.Genesis {
	t.Helper()
	renom := testOutpoint("genesis/renomination", 0)
	epoch := testOutpoint("genesis/epoch", 0)
	gen, err := NewGenesis(GenesisParams{
		Variant:   schema.VariantFull,
		Network:   "signet",
		Ticker:    "tst",
		Name:      "Test coin",
		Precision: 8,
		Timestamp: time.Unix(1700000000, 0),
		Allocations: []OutpointValue{
			{Outpoint: testOutpoint("genesis/alloc", 0), Value: 400},
			{Outpoint: testOutpoint("genesis/alloc", 1), Value: 600},
		},
		Inflation:    []OutpointValue{{Outpoint: testOutpoint("genesis/inflation", 0), Value: 500}},
		Renomination: &renom,
		Epoch:        &epoch,
	})
	if err != nil {
		t.Fatalf("NewGenesis: %v", err)
	}
	return gen
}

// manualGenesis builds a hand-rolled full-schema genesis issuing 1000 units to
// a single allocation, letting tests inject malformed metadata or seals.
func manualGenesis(mutate func(meta contract.Metadata, rights contract.Assignments)) *contract.Genesis {
	meta := make(contract.Metadata)
	meta.Add(schema.FieldTicker, contract.AsciiValue("TST"))
	meta.Add(schema.FieldName, contract.AsciiValue("Test coin"))
	meta.Add(schema.FieldPrecision, contract.U8Value(8))
	meta.Add(schema.FieldTimestamp, contract.I64Value(1700000000))
	meta.Add(schema.FieldIssuedSupply, contract.U64Value(1000))

	rights := make(contract.Assignments)
	rights.AddValue(schema.RightAssets, testOutpoint("genesis/alloc", 0), 1000)

	if mutate != nil {
		mutate(meta, rights)
	}
	return &contract.Genesis{
		SchemaID:    schema.Build(schema.VariantFull).SchemaID(),
		Network:     "signet",
		Metadata:    meta,
		OwnedRights: rights,
	}
}

func transferTransition(spend wire.OutPoint, witness chainhash.Hash, outs ...OutpointValue) *contract.Transition {
	rights := make(contract.Assignments)
	for _, o := range outs {
		rights.AddValue(schema.RightAssets, o.Outpoint, o.Value)
	}
	return &contract.Transition{
		Type:        schema.TransitionTransfer,
		Metadata:    make(contract.Metadata),
		Closes:      []contract.Input{{Right: schema.RightAssets, Outpoint: spend}},
		OwnedRights: rights,
		Witness:     witness,
	}
}

// epochTransition closes the open-epoch right and grants one burn right on
// output 0 of its witness transaction.
func epochTransition(epochRight wire.OutPoint, witness chainhash.Hash) *contract.Transition {
	rights := make(contract.Assignments)
	rights.Add(schema.RightBurnReplace, contract.Assignment{Seal: contract.WitnessSeal(0)})
	return &contract.Transition{
		Type:        schema.TransitionEpoch,
		Metadata:    make(contract.Metadata),
		Closes:      []contract.Input{{Right: schema.RightOpenEpoch, Outpoint: epochRight}},
		OwnedRights: rights,
		Witness:     witness,
	}
}

func burnTransition(burnRight wire.OutPoint, amount uint64, witness chainhash.Hash) *contract.Transition {
	meta := make(contract.Metadata)
	meta.Add(schema.FieldBurnedSupply, contract.U64Value(amount))
	return &contract.Transition{
		Type:        schema.TransitionBurn,
		Metadata:    meta,
		Closes:      []contract.Input{{Right: schema.RightBurnReplace, Outpoint: burnRight}},
		OwnedRights: make(contract.Assignments),
		Witness:     witness,
	}
}

func TestProjectGenesisView(t *testing.T) {
	gen := fullGenesis(t)
	a, err := Project(gen, nil)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}

	if a.ContractID != gen.ContractID() {
		t.Fatalf("contract id = %s, want %s", a.ContractID, gen.ContractID())
	}
	if a.Variant != schema.VariantFull {
		t.Fatalf("variant = %s", a.Variant)
	}
	if a.Nomination.Ticker != "TST" {
		t.Fatalf("ticker = %q, want normalized %q", a.Nomination.Ticker, "TST")
	}
	if !a.IssuedAt.Equal(time.Unix(1700000000, 0)) {
		t.Fatalf("issued at = %v", a.IssuedAt)
	}

	if a.KnownSupply != 1000 || a.MaxSupply != 1500 {
		t.Fatalf("supply = %d/%d, want 1000/1500", a.KnownSupply, a.MaxSupply)
	}
	if a.SpendableSupply() != 1000 {
		t.Fatalf("spendable = %d, want 1000", a.SpendableSupply())
	}

	if len(a.KnownAllocations) != 2 {
		t.Fatalf("allocations = %d, want 2", len(a.KnownAllocations))
	}
	var total uint64
	for _, al := range a.KnownAllocations {
		total += al.Value
		if al.Witness != (chainhash.Hash{}) {
			t.Fatalf("genesis allocation %s carries a witness", al.Outpoint)
		}
	}
	if total != 1000 {
		t.Fatalf("allocated total = %d, want 1000", total)
	}
	if outpointLess(a.KnownAllocations[1].Outpoint, a.KnownAllocations[0].Outpoint) {
		t.Fatal("allocations are not sorted")
	}

	if len(a.KnownInflation) != 1 || a.KnownInflation[0].Cap != 500 {
		t.Fatalf("inflation rights = %+v", a.KnownInflation)
	}
	if a.OpenEpochRight == nil || a.RenominationRight == nil {
		t.Fatal("declarative rights missing from the view")
	}

	if !a.CanBeInflated || !a.CanBeRenominated {
		t.Fatal("inflation/renomination flags not set")
	}
	if a.CanBeBurned || a.CanBeReplaced {
		t.Fatal("burn flags set before any epoch was opened")
	}
	if a.TotalSupplyKnown {
		t.Fatal("total supply cannot be known while inflation rights are unspent")
	}
}

func TestProjectTransferMovesAllocations(t *testing.T) {
	gen := fullGenesis(t)
	w := testWitness("t1")
	transfer := transferTransition(testOutpoint("genesis/alloc", 0), w,
		OutpointValue{Outpoint: testOutpoint("t1/out", 0), Value: 250},
		OutpointValue{Outpoint: testOutpoint("t1/out", 1), Value: 150},
	)

	a, err := Project(gen, []*contract.Transition{transfer})
	if err != nil {
		t.Fatalf("Project: %v", err)
	}

	if a.KnownSupply != 1000 {
		t.Fatalf("transfer changed the supply: %d", a.KnownSupply)
	}
	if _, ok := a.Allocation(testOutpoint("genesis/alloc", 0)); ok {
		t.Fatal("spent allocation still in the view")
	}
	al, ok := a.Allocation(testOutpoint("t1/out", 0))
	if !ok || al.Value != 250 || al.Witness != w {
		t.Fatalf("new allocation = %+v, %v", al, ok)
	}
	if len(a.KnownAllocations) != 3 {
		t.Fatalf("allocations = %d, want 3", len(a.KnownAllocations))
	}
}

func TestProjectRejectsDoubleClose(t *testing.T) {
	gen := fullGenesis(t)
	spent := testOutpoint("genesis/alloc", 0)
	first := transferTransition(spent, testWitness("t1"),
		OutpointValue{Outpoint: testOutpoint("t1/out", 0), Value: 400})
	second := transferTransition(spent, testWitness("t2"),
		OutpointValue{Outpoint: testOutpoint("t2/out", 0), Value: 400})

	_, err := Project(gen, []*contract.Transition{first, second})
	if CodeOf(err) != CodeInsufficientRights {
		t.Fatalf("Project = %v, want %s", err, CodeInsufficientRights)
	}
}

func TestProjectBurnAccounting(t *testing.T) {
	gen := fullGenesis(t)
	epochWitness := testWitness("epoch1")
	epoch := epochTransition(testOutpoint("genesis/epoch", 0), epochWitness)

	mid, err := Project(gen, []*contract.Transition{epoch})
	if err != nil {
		t.Fatalf("Project after epoch: %v", err)
	}
	if !mid.CanBeBurned || !mid.CanBeReplaced {
		t.Fatal("open epoch must enable burning and replacement")
	}
	if mid.OpenEpochRight != nil {
		t.Fatal("epoch right still unspent after the epoch opened")
	}

	burnRight := wire.OutPoint{Hash: epochWitness, Index: 0}
	burn := burnTransition(burnRight, 100, testWitness("burn1"))

	a, err := Project(gen, []*contract.Transition{epoch, burn})
	if err != nil {
		t.Fatalf("Project after burn: %v", err)
	}
	if a.KnownSupply != 1000 || a.BurnedSupply != 100 {
		t.Fatalf("supply = %d burned %d, want 1000 burned 100", a.KnownSupply, a.BurnedSupply)
	}
	if a.SpendableSupply() != 900 {
		t.Fatalf("spendable = %d, want 900", a.SpendableSupply())
	}
	if a.CanBeBurned {
		t.Fatal("burn right was consumed and none was granted back")
	}
}

func TestProjectBurnAndReplace(t *testing.T) {
	gen := fullGenesis(t)
	epochWitness := testWitness("epoch1")
	epoch := epochTransition(testOutpoint("genesis/epoch", 0), epochWitness)

	replaceWitness := testWitness("replace1")
	meta := make(contract.Metadata)
	meta.Add(schema.FieldBurnedSupply, contract.U64Value(100))
	meta.Add(schema.FieldIssuedSupply, contract.U64Value(100))
	rights := make(contract.Assignments)
	rights.AddValue(schema.RightAssets, testOutpoint("replace/out", 0), 100)
	rights.Add(schema.RightBurnReplace, contract.Assignment{Seal: contract.WitnessSeal(1)})
	replace := &contract.Transition{
		Type:        schema.TransitionBurnAndReplace,
		Metadata:    meta,
		Closes:      []contract.Input{{Right: schema.RightBurnReplace, Outpoint: wire.OutPoint{Hash: epochWitness, Index: 0}}},
		OwnedRights: rights,
		Witness:     replaceWitness,
	}

	a, err := Project(gen, []*contract.Transition{epoch, replace})
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if a.ReplacedSupply != 100 || a.BurnedSupply != 0 {
		t.Fatalf("replaced = %d burned = %d, want 100/0", a.ReplacedSupply, a.BurnedSupply)
	}
	if a.KnownSupply != 1100 || a.SpendableSupply() != 1000 {
		t.Fatalf("known = %d spendable = %d, want 1100/1000", a.KnownSupply, a.SpendableSupply())
	}
	if _, ok := a.Allocation(testOutpoint("replace/out", 0)); !ok {
		t.Fatal("replacement allocation missing")
	}

	// The successor burn right inherits the epoch lineage of the one it
	// replaced, so a further burn against it is accepted.
	burn := burnTransition(wire.OutPoint{Hash: replaceWitness, Index: 1}, 50, testWitness("burn2"))
	if _, err := Project(gen, []*contract.Transition{epoch, replace, burn}); err != nil {
		t.Fatalf("Project with successor burn: %v", err)
	}
}

func TestProjectUnknownBurnRightMeansUnexposedEpoch(t *testing.T) {
	gen := fullGenesis(t)
	burn := burnTransition(testOutpoint("withheld/epoch", 0), 100, testWitness("burn1"))

	_, err := Project(gen, []*contract.Transition{burn})
	if CodeOf(err) != CodeNotAllEpochsExposed {
		t.Fatalf("Project = %v, want %s", err, CodeNotAllEpochsExposed)
	}
}

func TestProjectRejectsForeignSchema(t *testing.T) {
	gen := fullGenesis(t)
	gen.SchemaID = cidutil.SchemaID([]byte("not an rgb20 schema"))

	_, err := Project(gen, nil)
	if CodeOf(err) != CodeWrongSchemaID {
		t.Fatalf("Project = %v, want %s", err, CodeWrongSchemaID)
	}
}

func TestProjectRejectsMissingGenesisMetadata(t *testing.T) {
	gen := manualGenesis(func(meta contract.Metadata, _ contract.Assignments) {
		delete(meta, schema.FieldIssuedSupply)
	})
	_, err := Project(gen, nil)
	if CodeOf(err) != CodeUnsatisfiedSchemaRequirement {
		t.Fatalf("Project = %v, want %s", err, CodeUnsatisfiedSchemaRequirement)
	}
}

func TestProjectRejectsWitnessSealInGenesis(t *testing.T) {
	gen := manualGenesis(func(_ contract.Metadata, rights contract.Assignments) {
		rights.Add(schema.RightAssets, contract.Assignment{Seal: contract.WitnessSeal(0), Value: 10})
	})
	_, err := Project(gen, nil)
	if CodeOf(err) != CodeGenesisSeal {
		t.Fatalf("Project = %v, want %s", err, CodeGenesisSeal)
	}
}

func TestProjectRejectsConcealedEpochSeal(t *testing.T) {
	gen := manualGenesis(func(_ contract.Metadata, rights contract.Assignments) {
		rights.Add(schema.RightOpenEpoch, contract.Assignment{
			Seal: contract.ConcealedSeal(chainhash.HashH([]byte("blinded epoch"))),
		})
	})
	_, err := Project(gen, nil)
	if CodeOf(err) != CodeEpochSealConfidential {
		t.Fatalf("Project = %v, want %s", err, CodeEpochSealConfidential)
	}
}

func TestProjectRejectsConcealedInflationCap(t *testing.T) {
	gen := manualGenesis(func(_ contract.Metadata, rights contract.Assignments) {
		rights.Add(schema.RightInflation, contract.Assignment{
			Seal:              contract.RevealedSeal(testOutpoint("genesis/inflation", 0)),
			ValueConfidential: true,
		})
	})
	_, err := Project(gen, nil)
	if CodeOf(err) != CodeInflationAssignmentConfidential {
		t.Fatalf("Project = %v, want %s", err, CodeInflationAssignmentConfidential)
	}
}

func TestProjectSkipsConcealedAllocations(t *testing.T) {
	gen := manualGenesis(func(_ contract.Metadata, rights contract.Assignments) {
		rights.Add(schema.RightAssets, contract.Assignment{
			Seal:              contract.ConcealedSeal(chainhash.HashH([]byte("blinded alloc"))),
			ValueConfidential: true,
		})
	})
	a, err := Project(gen, nil)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	// The concealed allocation stays out of the known view without failing
	// the projection; the issued supply still counts it.
	if len(a.KnownAllocations) != 1 {
		t.Fatalf("allocations = %d, want 1", len(a.KnownAllocations))
	}
	if a.KnownSupply != 1000 {
		t.Fatalf("supply = %d, want 1000", a.KnownSupply)
	}
}

func TestProjectRejectsConcealedBurnRightSeal(t *testing.T) {
	gen := fullGenesis(t)
	epochWitness := testWitness("epoch1")
	epoch := epochTransition(testOutpoint("genesis/epoch", 0), epochWitness)

	meta := make(contract.Metadata)
	meta.Add(schema.FieldBurnedSupply, contract.U64Value(10))
	rights := make(contract.Assignments)
	rights.Add(schema.RightBurnReplace, contract.Assignment{
		Seal: contract.ConcealedSeal(chainhash.HashH([]byte("blinded burn"))),
	})
	burn := &contract.Transition{
		Type:        schema.TransitionBurn,
		Metadata:    meta,
		Closes:      []contract.Input{{Right: schema.RightBurnReplace, Outpoint: wire.OutPoint{Hash: epochWitness, Index: 0}}},
		OwnedRights: rights,
		Witness:     testWitness("burn1"),
	}

	_, err := Project(gen, []*contract.Transition{epoch, burn})
	if CodeOf(err) != CodeBurnSealConfidential {
		t.Fatalf("Project = %v, want %s", err, CodeBurnSealConfidential)
	}
}

func TestProjectRejectsOverBurn(t *testing.T) {
	gen := fullGenesis(t)
	epochWitness := testWitness("epoch1")
	epoch := epochTransition(testOutpoint("genesis/epoch", 0), epochWitness)
	burn := burnTransition(wire.OutPoint{Hash: epochWitness, Index: 0}, 5000, testWitness("burn1"))

	_, err := Project(gen, []*contract.Transition{epoch, burn})
	if CodeOf(err) != CodeInsufficientRights {
		t.Fatalf("Project = %v, want %s", err, CodeInsufficientRights)
	}
}

func TestProjectSecondaryIssue(t *testing.T) {
	gen := fullGenesis(t)
	w := testWitness("issue1")
	meta := make(contract.Metadata)
	meta.Add(schema.FieldIssuedSupply, contract.U64Value(200))
	rights := make(contract.Assignments)
	rights.AddValue(schema.RightAssets, testOutpoint("issue/out", 0), 200)
	rights.AddValue(schema.RightInflation, testOutpoint("issue/inflation", 0), 300)
	issue := &contract.Transition{
		Type:        schema.TransitionIssue,
		Metadata:    meta,
		Closes:      []contract.Input{{Right: schema.RightInflation, Outpoint: testOutpoint("genesis/inflation", 0)}},
		OwnedRights: rights,
		Witness:     w,
	}

	a, err := Project(gen, []*contract.Transition{issue})
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if a.KnownSupply != 1200 {
		t.Fatalf("supply = %d, want 1200", a.KnownSupply)
	}
	// Maximum supply is fixed at genesis; carrying the right forward does not
	// raise it.
	if a.MaxSupply != 1500 {
		t.Fatalf("max supply = %d, want 1500", a.MaxSupply)
	}
	if len(a.KnownInflation) != 1 || a.KnownInflation[0].Cap != 300 {
		t.Fatalf("inflation rights = %+v", a.KnownInflation)
	}
	if !a.CanBeInflated || a.TotalSupplyKnown {
		t.Fatal("carried-forward inflation right not reflected in flags")
	}
}

func TestProjectTotalSupplyKnownWhenInflationEnds(t *testing.T) {
	gen := fullGenesis(t)
	meta := make(contract.Metadata)
	meta.Add(schema.FieldIssuedSupply, contract.U64Value(500))
	rights := make(contract.Assignments)
	rights.AddValue(schema.RightAssets, testOutpoint("issue/out", 0), 500)
	issue := &contract.Transition{
		Type:        schema.TransitionIssue,
		Metadata:    meta,
		Closes:      []contract.Input{{Right: schema.RightInflation, Outpoint: testOutpoint("genesis/inflation", 0)}},
		OwnedRights: rights,
		Witness:     testWitness("issue1"),
	}

	a, err := Project(gen, []*contract.Transition{issue})
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if a.CanBeInflated {
		t.Fatal("no inflation right remains, yet the flag is set")
	}
	if !a.TotalSupplyKnown {
		t.Fatal("total supply must be known once inflation ends")
	}
	if a.KnownSupply != 1500 || a.KnownSupply != a.MaxSupply {
		t.Fatalf("known %d vs max %d", a.KnownSupply, a.MaxSupply)
	}
}
