package bot

import "github.com/benbeisheim/chess-backend/internal/model"

// Opponent searches one own move plus every opposing reply.
//
// Every own legal move is tried on a private copy of the board. A move
// that leaves the opponent without legal moves is returned at once, so
// when several mates exist the shuffled piece order decides which one.
// Otherwise each (move, reply) pair records
//
//	pre - min(score after reply, score after move + approach bonus)
//
// where the approach bonus is 1 when the move ends strictly closer to the
// enemy king than it started. The move owning the smallest record wins;
// the first one found wins ties.
//
// Cost grows with own legal moves times opposing legal replies, each reply
// also paying a legality filter pass. There is no pruning and no deeper
// lookahead.
type Opponent struct {
	src *source
}

func NewOpponent(seed uint64) *Opponent {
	return &Opponent{src: newSource(seed)}
}

func (o *Opponent) Name() string {
	return "Greedy Opponent"
}

func (o *Opponent) BestMove(board *model.Board, color model.Color) (model.Move, bool) {
	b := board.Clone()
	enemy := color.Opponent()
	enemyKing, hasEnemyKing := b.FindKing(enemy)
	pre := b.Score(color)

	pieces := b.Pieces(color)
	o.src.shuffle(pieces)

	var best model.Move
	bestValue, found := 0, false
	for _, piece := range pieces {
		from := piece.Position
		for _, to := range b.ValidMoves(from) {
			u := b.Apply(from, to)
			if b.Checkmate(enemy) {
				return model.Move{From: from, To: to}, true
			}

			working := b.Score(color)
			if hasEnemyKing && distance(to, enemyKing) < distance(from, enemyKing) {
				working++
			}

			for _, reply := range b.Pieces(enemy) {
				replyFrom := reply.Position
				for _, replyTo := range b.ValidMoves(replyFrom) {
					ru := b.Apply(replyFrom, replyTo)
					value := pre - min(b.Score(color), working)
					b.Undo(ru)
					if !found || value < bestValue {
						best = model.Move{From: from, To: to}
						bestValue, found = value, true
					}
				}
			}
			b.Undo(u)
		}
	}
	return best, found
}

// distance is the squared Euclidean distance, which orders squares the
// same way the true distance does.
func distance(a, b model.Position) int {
	dr := a.Rank - b.Rank
	df := a.File - b.File
	return dr*dr + df*df
}
