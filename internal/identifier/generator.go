// Package identifier generates the human-readable record identifiers:
// {BRANCHCODE}{DDMMYY}{TYPECODE}{SEQ}, e.g. HYD010125HD001. The sequence
// is three digits, scoped by the full prefix, so it resets implicitly at
// every date change per branch, type and category.
package identifier

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	apperrors "asset-system/pkg/errors"
)

type Kind string

const (
	KindAsset       Kind = "asset"
	KindProcurement Kind = "procurement"
	KindMaintenance Kind = "maintenance"
	KindDisposal    Kind = "disposal"
)

type Category string

const (
	CategoryHSDC         Category = "HSDC"
	CategoryComputer     Category = "COMPUTER"
	CategoryElectrical   Category = "ELECTRICAL"
	CategoryOffice       Category = "OFFICE"
	CategoryFurniture    Category = "FURNITURE"
	CategoryFirefighting Category = "FIREFIGHTING"
	CategoryBuilding     Category = "BUILDING"
)

var categoryCodes = map[Category]string{
	CategoryHSDC:         "HD",
	CategoryComputer:     "CP",
	CategoryElectrical:   "EL",
	CategoryOffice:       "OF",
	CategoryFurniture:    "FR",
	CategoryFirefighting: "FF",
	CategoryBuilding:     "BD",
}

var kindCodes = map[Kind]string{
	KindProcurement: "PR",
	KindMaintenance: "MT",
	KindDisposal:    "DS",
}

// ValidCategory reports whether the category has an identifier code.
func ValidCategory(c Category) bool {
	_, ok := categoryCodes[c]
	return ok
}

// Clock abstracts wall-clock time so generation is deterministic in tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func SystemClock() Clock { return systemClock{} }

// BranchSource resolves a branch id to its short code. Implementations
// must return apperrors.ErrNotFound for unknown or inactive branches.
type BranchSource interface {
	ActiveBranchCode(ctx context.Context, id uint64) (string, error)
}

// Sequencer finds the greatest existing identifier matching a prefix in
// one entity table. Implementations must serialize concurrent callers of
// the same prefix for the duration of tx (the repositories take a
// Postgres advisory xact lock keyed on the prefix before scanning).
type Sequencer interface {
	LastIdentifier(ctx context.Context, tx pgx.Tx, prefix string) (string, error)
}

type Generator struct {
	branches BranchSource
	clock    Clock
}

func NewGenerator(branches BranchSource, clock Clock) *Generator {
	return &Generator{branches: branches, clock: clock}
}

// Next computes the next identifier for a new record. It must be called
// inside the same transaction that inserts the record, so a failed insert
// never leaves the sequence advanced.
func (g *Generator) Next(ctx context.Context, tx pgx.Tx, seq Sequencer, kind Kind, branchID uint64, category Category) (string, error) {
	prefix, err := g.Prefix(ctx, kind, branchID, category)
	if err != nil {
		return "", err
	}

	last, err := seq.LastIdentifier(ctx, tx, prefix)
	if err != nil {
		return "", err
	}

	next := 1
	if last != "" {
		n, err := SequenceOf(last)
		if err != nil {
			return "", fmt.Errorf("malformed identifier %q: %w", last, err)
		}
		next = n + 1
	}

	return fmt.Sprintf("%s%03d", prefix, next), nil
}

// Prefix builds the fixed leading portion: branch code + DDMMYY + type code.
func (g *Generator) Prefix(ctx context.Context, kind Kind, branchID uint64, category Category) (string, error) {
	branchCode, err := g.branches.ActiveBranchCode(ctx, branchID)
	if err != nil {
		return "", err
	}

	typeCode, err := TypeCode(kind, category)
	if err != nil {
		return "", err
	}

	dateCode := g.clock.Now().Format("020106")
	return strings.ToUpper(branchCode) + dateCode + typeCode, nil
}

// TypeCode returns the two-letter entity type code. Assets map through
// their category; everything else has a fixed code.
func TypeCode(kind Kind, category Category) (string, error) {
	if kind == KindAsset {
		code, ok := categoryCodes[category]
		if !ok {
			return "", apperrors.ErrInvalidCategory
		}
		return code, nil
	}
	code, ok := kindCodes[kind]
	if !ok {
		return "", fmt.Errorf("unknown entity kind %q", kind)
	}
	return code, nil
}

// SequenceOf parses the trailing three-digit sequence of an identifier.
func SequenceOf(id string) (int, error) {
	if len(id) < 3 {
		return 0, fmt.Errorf("identifier too short")
	}
	return strconv.Atoi(id[len(id)-3:])
}
