package server

// The chart page is self-contained: no CDN scripts, one canvas line chart per
// series. It tolerates out-of-order steps (points are sorted by step before
// drawing) and skips null values.
const chartPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>mdwatch</title>
<style>
  body { font-family: sans-serif; background: #111; color: #ddd; margin: 0; }
  h2 { text-align: center; font-weight: normal; }
  #status { text-align: center; color: #888; font-size: 0.85em; }
  .chart { margin: 12px auto; width: 820px; }
  .chart .title { font-size: 0.9em; color: #aaa; margin-bottom: 2px; }
  canvas { background: #1a1a1a; border: 1px solid #333; }
</style>
</head>
<body>
<h2>mdwatch live observables</h2>
<div id="status">connecting&hellip;</div>
<script>
"use strict";

var charts = {};
var colors = ["#4fc3f7", "#81c784", "#ffb74d", "#e57373", "#ba68c8", "#fff176"];
var nextColor = 0;

function makeChart(name, label) {
  var div = document.createElement("div");
  div.className = "chart";
  var title = document.createElement("div");
  title.className = "title";
  title.textContent = label || name;
  var canvas = document.createElement("canvas");
  canvas.width = 820;
  canvas.height = 180;
  div.appendChild(title);
  div.appendChild(canvas);
  document.body.appendChild(div);
  charts[name] = {
    points: [],
    ctx: canvas.getContext("2d"),
    w: canvas.width,
    h: canvas.height,
    color: colors[nextColor++ % colors.length]
  };
}

function draw(c) {
  var ctx = c.ctx;
  ctx.clearRect(0, 0, c.w, c.h);
  if (c.points.length < 2) return;

  var pts = c.points.slice().sort(function(a, b) { return a[0] - b[0]; });
  var xmin = pts[0][0], xmax = pts[pts.length - 1][0];
  var ymin = Infinity, ymax = -Infinity;
  for (var i = 0; i < pts.length; i++) {
    if (pts[i][1] < ymin) ymin = pts[i][1];
    if (pts[i][1] > ymax) ymax = pts[i][1];
  }
  if (ymin === ymax) { ymin -= 1; ymax += 1; }
  var pad = 10;

  ctx.strokeStyle = c.color;
  ctx.lineWidth = 1.5;
  ctx.beginPath();
  for (var i = 0; i < pts.length; i++) {
    var x = pad + (pts[i][0] - xmin) / (xmax - xmin) * (c.w - 2 * pad);
    var y = c.h - pad - (pts[i][1] - ymin) / (ymax - ymin) * (c.h - 2 * pad);
    if (i === 0) ctx.moveTo(x, y); else ctx.lineTo(x, y);
  }
  ctx.stroke();

  ctx.fillStyle = "#777";
  ctx.font = "11px monospace";
  ctx.fillText(ymax.toPrecision(6), pad, pad + 4);
  ctx.fillText(ymin.toPrecision(6), pad, c.h - pad);
  ctx.fillText("step " + xmax, c.w - 90, c.h - pad);
}

function onSample(msg) {
  for (var name in msg.values) {
    if (!charts[name]) makeChart(name, name);
    var v = msg.values[name];
    if (v === null || typeof v !== "number") continue;
    var c = charts[name];
    c.points.push([msg.step, v]);
    draw(c);
  }
}

function connect() {
  var status = document.getElementById("status");
  var socket = new WebSocket("ws://" + window.location.host + "/ws");

  socket.onopen = function() { status.textContent = "connected"; };
  socket.onclose = function() { status.textContent = "disconnected"; };

  socket.onmessage = function(packet) {
    var msg;
    try {
      msg = JSON.parse(packet.data);
    } catch (err) {
      console.log("ignoring malformed message", err);
      return;
    }
    if (msg.series) {
      for (var name in msg.series) {
        if (!charts[name]) makeChart(name, msg.series[name]);
      }
      return;
    }
    if (msg.values) onSample(msg);
  };
}

connect();
</script>
</body>
</html>
`
