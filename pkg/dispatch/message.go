package dispatch

import (
	"slices"
	"strings"

	"github.com/mfreeman451/meshbot/pkg/models"
)

// SplitMessage returns the whitespace-delimited first token of message and
// the rest, trimmed.
func SplitMessage(message string) (token, rest string) {
	message = strings.TrimSpace(message)

	idx := strings.IndexAny(message, " \t\r\n")
	if idx < 0 {
		return message, ""
	}

	return message[:idx], strings.TrimSpace(message[idx+1:])
}

// DescribeMessage is the default DescribeForLogging: the first token is the
// base command, the next tokens that are listed in known are subcommands and
// the remainder is the argument string.
func DescribeMessage(message string, known ...string) (base string, subcommands []string, args string) {
	base, rest := SplitMessage(message)

	for rest != "" {
		tok, tail := SplitMessage(rest)
		if !slices.Contains(known, tok) {
			break
		}

		subcommands = append(subcommands, tok)
		rest = tail
	}

	return base, subcommands, rest
}

// ReplyTarget addresses a reply to pkt: direct messages go back to the
// sender, everything else to the channel it arrived on.
func ReplyTarget(pkt *models.Packet, myID models.NodeID) models.Target {
	if pkt.To == myID {
		return models.DirectTarget(pkt.From)
	}

	return models.ChannelTarget(pkt.Channel)
}
