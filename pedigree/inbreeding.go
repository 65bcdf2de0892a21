// SPDX-License-Identifier: MIT

package pedigree

import "container/heap"

// ancestorQueue pops the latest (highest position) ancestor first.
type ancestorQueue []int

func (q ancestorQueue) Len() int           { return len(q) }
func (q ancestorQueue) Less(i, j int) bool { return q[i] > q[j] }
func (q ancestorQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *ancestorQueue) Push(x any)        { *q = append(*q, x.(int)) }
func (q *ancestorQueue) Pop() any {
	old := *q
	x := old[len(old)-1]
	*q = old[:len(old)-1]

	return x
}

// inbreeding fills f and d (Meuwissen & Luo, 1992).
//
// Implementation:
//   - Stage 1: dᵢ from the parents' F (F of an unknown parent is −1).
//   - Stage 2: trace the path coefficients L of i back through its ancestors,
//     latest first; aᵢᵢ = Σ L[j]²·d[j]; Fᵢ = aᵢᵢ − 1.
//   - Full sibs of the previous individual reuse its F.
func (p *Pedigree) inbreeding() {
	n := len(p.ids)
	p.f = make([]float64, n)
	p.d = make([]float64, n)
	l := make([]float64, n)
	queued := make([]bool, n)
	fOf := func(pos int) float64 {
		if pos == unknown {
			return -1
		}
		return p.f[pos]
	}

	for i := 0; i < n; i++ {
		s, d := p.sire[i], p.dam[i]
		p.d[i] = 0.5 - 0.25*(fOf(s)+fOf(d))

		switch {
		case s == unknown || d == unknown:
			// One unknown parent means no common ancestor.
			p.f[i] = 0
			continue
		case i > 0 && s == p.sire[i-1] && d == p.dam[i-1]:
			p.f[i] = p.f[i-1]
			continue
		}

		var q ancestorQueue
		aii := 0.0
		l[i] = 1
		for j := i; ; {
			if sj := p.sire[j]; sj != unknown {
				l[sj] += 0.5 * l[j]
				if !queued[sj] {
					queued[sj] = true
					heap.Push(&q, sj)
				}
			}
			if dj := p.dam[j]; dj != unknown {
				l[dj] += 0.5 * l[j]
				if !queued[dj] {
					queued[dj] = true
					heap.Push(&q, dj)
				}
			}
			aii += l[j] * l[j] * p.d[j]
			l[j] = 0
			if q.Len() == 0 {
				break
			}
			j = heap.Pop(&q).(int)
			queued[j] = false
		}
		p.f[i] = aii - 1
	}
}
