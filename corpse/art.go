package corpse

var heads = []string{
	`  ◯◯◯◯◯
 ◯     ◯
◯   •   ◯
 ◯     ◯
  ◯◯◯◯◯`,
	`   ∿∿∿∿
  ∿ ◉ ∿
 ∿  •  ∿
  ∿ ◉ ∿
   ∿∿∿∿`,
	`  ╱╲╱╲╱╲
 ╱  ◈  ╲
╱   •   ╲
 ╲  ◈  ╱
  ╲╱╲╱╲╱`,
	`   ⬢⬢⬢
  ⬢ ◇ ⬢
 ⬢  •  ⬢
  ⬢ ◇ ⬢
   ⬢⬢⬢`,
}

var torsos = []string{
	`  ╱════╲
 ╱      ╲
│   ◆    │
│   ◆    │
 ╲      ╱`,
	`  ┌─────┐
  │  ∿∿∿  │
  │  ∿◇∿  │
  │  ∿∿∿  │
  └─────┘`,
	`  ╔═════╗
  ║ ◈ ◈ ║
  ║  ◉  ║
  ║ ◈ ◈ ║
  ╚═════╝`,
	`   ⟨═════⟩
   ⟨  ◇◇  ⟩
   ⟨  •◇  ⟩
   ⟨  ◇◇  ⟩
   ⟨═════⟩`,
}

var legs = []string{
	`  ║   ║
  ║   ║
  │   │
  │   │
  ▼   ▼`,
	`  ╱   ╲
  │   │
  ╱   ╲
 ╱     ╲
▼       ▼`,
	`  ◆   ◆
  ║   ║
  │   │
  ├───┤
  ▼   ▼`,
	`  ⬥   ⬥
  ╱   ╲
 ╱     ╲
╱       ╲
▼       ▼`,
}
