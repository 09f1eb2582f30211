package format_test

import (
	"strings"
	"testing"

	"github.com/free5lot-go/catalogfs/sidecar/format"
	"github.com/stretchr/testify/suite"
)

type ReaderTest struct {
	suite.Suite
}

func TestReaderSuite(t *testing.T) {
	suite.Run(t, new(ReaderTest))
}

func (t *ReaderTest) parse(s string) (*format.Record, error) {
	return format.ParseReader(strings.NewReader(s), -1)
}

func (t *ReaderTest) TestBasicCurrentFormat() {
	rec, err := t.parse("CatalogFS=3\n" +
		"size=100\n" +
		"blocks=1\n" +
		"mode=33188\n" +
		"uid=1000\n" +
		"gid=1000\n" +
		"atime=1700000000\n" +
		"mtime=1700000000\n" +
		"ctime=1700000000\n" +
		"atimensec=0\n" +
		"mtimensec=0\n" +
		"ctimensec=0\n" +
		"nlink=1\n" +
		"blksize=4096\n")

	t.Require().NoError(err)
	t.EqualValues(100, rec.Size)
	t.EqualValues(1, rec.Blocks)
	t.EqualValues(33188, rec.Mode)
	t.EqualValues(1000, rec.UID)
	t.EqualValues(1000, rec.GID)
	t.EqualValues(1, rec.Nlink)
	t.EqualValues(4096, rec.Blksize)
}

// S3: legacy parse.
func (t *ReaderTest) TestLegacyParseTerminatesOnName() {
	rec, err := t.parse("CatalogFS.File.2\nsize:4096\nmode:33188\nname:whatever\nsize:0\n")

	t.Require().NoError(err)
	t.EqualValues(4096, rec.Size)
	t.EqualValues(33188, rec.Mode)
}

func (t *ReaderTest) TestLegacyV1TerminatesOnPath() {
	rec, err := t.parse("CatalogFS.File.1\nsize:10\npath:/whatever\nsize:99\n")

	t.Require().NoError(err)
	t.EqualValues(10, rec.Size)
}

// S4: negative value rejected.
func (t *ReaderTest) TestNegativeSizeRejected() {
	_, err := t.parse("CatalogFS=3\nsize=-1\n")

	t.ErrorIs(err, format.ErrNegativeField)
}

// S5: unknown keys, comments, and mtime present.
func (t *ReaderTest) TestUnknownKeysAndComments() {
	rec, err := t.parse("CatalogFS=3\nsize=10\n# comment\nfuture_field=hi\nmtime=1700000000\n")

	t.Require().NoError(err)
	t.EqualValues(10, rec.Size)
	t.EqualValues(1700000000, rec.Mtime)
}

func (t *ReaderTest) TestCommentSemicolon() {
	rec, err := t.parse("CatalogFS=3\n; a comment\nsize=5\n")

	t.Require().NoError(err)
	t.EqualValues(5, rec.Size)
}

func (t *ReaderTest) TestBlankLinesIgnored() {
	rec, err := t.parse("CatalogFS=3\n\n   \nsize=5\n\n")

	t.Require().NoError(err)
	t.EqualValues(5, rec.Size)
}

// Invariant 2/3: reordering plus interleaved noise doesn't change the
// result.
func (t *ReaderTest) TestFieldReorderingAndNoiseTolerance() {
	a, err := t.parse("CatalogFS=3\nsize=5\nmode=420\n")
	t.Require().NoError(err)

	b, err := t.parse("CatalogFS=3\n# leading noise\nmode=420\n;another\n\nsize=5\n# trailing\n")
	t.Require().NoError(err)

	t.Equal(a, b)
}

// Invariant 5: header strictness.
func (t *ReaderTest) TestBadHeaderRejected() {
	_, err := t.parse("NotAHeader\nsize=5\n")

	t.ErrorIs(err, format.ErrBadHeader)
}

func (t *ReaderTest) TestEmptyFileRejected() {
	_, err := t.parse("")

	t.ErrorIs(err, format.ErrBadHeader)
}

// Invariant 6: size cap, checked before any read.
func (t *ReaderTest) TestSizeCapRejectsWithoutReading() {
	_, err := format.ParseReader(strings.NewReader("CatalogFS=3\nsize=5\n"), format.MaxSidecarSize+1)

	t.ErrorIs(err, format.ErrTooLarge)
}

func (t *ReaderTest) TestSizeCapAllowsExactMax() {
	_, err := format.ParseReader(strings.NewReader("CatalogFS=3\nsize=5\n"), format.MaxSidecarSize)

	t.Require().NoError(err)
}

func (t *ReaderTest) TestEmptyValueAllowed() {
	rec, err := t.parse("CatalogFS=3\nfuture_field=\nsize=5\n")

	t.Require().NoError(err)
	t.EqualValues(5, rec.Size)
}

func (t *ReaderTest) TestMalformedNumericValueRejected() {
	_, err := t.parse("CatalogFS=3\nsize=5abc\n")

	t.ErrorIs(err, format.ErrMalformedLine)
}

func (t *ReaderTest) TestNoTrailingNewlineOnLastLineStillParses() {
	rec, err := t.parse("CatalogFS=3\nsize=7")

	t.Require().NoError(err)
	t.EqualValues(7, rec.Size)
}
