package narration

// Reconstruct scans the full narration log and returns one OutcomeRecord
// per contest, in log order. The final contest is flushed even when no
// later header closed it, so a contest still resolving mid-log appears
// with whatever detail has been narrated so far.
//
// Reconstruct never fails: narration is free text, and lines matching no
// pattern carry no structured meaning. Lines that would update a contest
// before any header has opened one are likewise skipped.
func Reconstruct(log []string) []OutcomeRecord {
	var records []OutcomeRecord
	var open *contest

	for _, line := range log {
		for _, p := range patterns {
			m := p.re.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			if p.opens != "" {
				if open != nil {
					records = append(records, open.record())
				}
				open = &contest{kind: p.opens, subject: m[1]}
			} else if open != nil {
				p.apply(open, m, line)
			}
			break
		}
	}
	if open != nil {
		records = append(records, open.record())
	}
	return records
}
