package ircsession

import "strings"

// maxPrefixModes bounds how many ISUPPORT PREFIX pairs are kept (spec §9
// Open Question (b): the limit is implementation-defined).
const maxPrefixModes = 16

// parseISupport scans a 005 (RPL_ISUPPORT) parameter list for PREFIX=(modes)chars
// and rebuilds the mode->prefix-char table from it.
func (s *Server) parseISupport(params []string) {
	for _, p := range params {
		const key = "PREFIX="
		if !strings.HasPrefix(p, key) {
			continue
		}
		rest := p[len(key):]
		if len(rest) == 0 || rest[0] != '(' {
			return
		}
		close := strings.IndexByte(rest, ')')
		if close < 0 {
			return
		}
		modes := rest[1:close]
		chars := rest[close+1:]
		n := len(modes)
		if len(chars) < n {
			n = len(chars)
		}
		if n > maxPrefixModes {
			n = maxPrefixModes
		}
		prefixes := make(map[byte]byte, n)
		seq := make([]byte, 0, n)
		for i := 0; i < n; i++ {
			prefixes[modes[i]] = chars[i]
			seq = append(seq, chars[i])
		}
		s.prefixes = prefixes
		s.prefixSeq = seq
		return
	}
}

// stripModePrefix removes a leading prefix-mode character from a NAMES or
// WHOIS-channels entry, if it matches the ISUPPORT table.
func (s *Server) stripModePrefix(nick string) string {
	if nick == "" {
		return nick
	}
	for _, c := range s.prefixSeq {
		if nick[0] == c {
			return nick[1:]
		}
	}
	return nick
}

// modeArgs buckets the trailing arguments of a MODE message into the
// limit/user/mask fields of an onMode event, keyed by the conventional
// meaning of the leading mode letter actually carrying an argument.
func modeArgs(mode string, args []string) (limit, user, mask string) {
	letters := strings.TrimLeft(mode, "+-")
	i := 0
	for _, c := range letters {
		if i >= len(args) {
			break
		}
		switch c {
		case 'l':
			limit = args[i]
		case 'b', 'e', 'I':
			mask = args[i]
		case 'o', 'v', 'h', 'q', 'a', 'k':
			user = args[i]
		default:
			continue
		}
		i++
	}
	return
}
