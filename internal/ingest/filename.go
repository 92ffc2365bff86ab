package ingest

import (
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/ledgerworks/cardledger/internal/models"
)

// rocEpoch converts Republic-of-China era years to western years.
const rocEpoch = 1911

var (
	westernPeriod = regexp.MustCompile(`(20\d{2})(\d{2})`)
	rocPeriod     = regexp.MustCompile(`(\d{2,3})年(\d{1,2})月`)

	supportedExt = regexp.MustCompile(`(?i)\.(csv|txt|xlsx?|html?)$`)
)

// BillingPeriod derives the statement's billing year and month from its
// filename. Filenames carry either a western YYYYMM token or a localized
// era-year token ("113年5月"). The era form wins when both appear. Returns
// ok=false with a usable default period when neither is present.
func BillingPeriod(filename string) (year, month int, ok bool) {
	base := filepath.Base(filename)

	if m := rocPeriod.FindStringSubmatch(base); m != nil {
		y, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		if mo >= 1 && mo <= 12 {
			return y + rocEpoch, mo, true
		}
	}
	if m := westernPeriod.FindStringSubmatch(base); m != nil {
		y, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		if mo >= 1 && mo <= 12 {
			return y, mo, true
		}
	}
	return 2024, 1, false
}

// DetectBank matches a filename against every profile's keyword list and
// returns the owning bank. Profiles are tried in ID order so a filename
// matching two keyword sets resolves the same way on every run. Hidden
// files and unsupported extensions never match.
func DetectBank(filename string, banks map[models.BankID]*models.BankProfile) (models.BankID, bool) {
	base := filepath.Base(filename)
	if strings.HasPrefix(base, ".") || !supportedExt.MatchString(base) {
		return "", false
	}

	ids := make([]models.BankID, 0, len(banks))
	for id := range banks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		for _, kw := range banks[id].Keywords {
			if kw != "" && strings.Contains(base, kw) {
				return id, true
			}
		}
	}
	return "", false
}
